package adminuser

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateEmail = errors.New("email already in use")

// CreateMasterAdmin inserts the first-ever admin row, carrying the bootstrap
// marker and an active status. The unique sparse index on the marker makes
// concurrent bootstrap attempts fail with a duplicate key error, so at most
// one master can ever exist.
func (dbService *AdminUserDBService) CreateMasterAdmin(email string, passwordHash string) (*AdminAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	newAdmin := &AdminAccount{
		Email:           email,
		Password:        passwordHash,
		Status:          ADMIN_STATUS_ACTIVE,
		BootstrapMarker: BOOTSTRAP_MARKER_MASTER,
		CreatedAt:       time.Now(),
	}
	res, err := dbService.collectionAdminUsers().InsertOne(ctx, newAdmin)
	if err != nil {
		return nil, err
	}
	newAdmin.ID = res.InsertedID.(primitive.ObjectID)
	return newAdmin, nil
}

// CreatePendingAdmin inserts a non-bootstrap admin row awaiting approval.
func (dbService *AdminUserDBService) CreatePendingAdmin(email string, passwordHash string) (*AdminAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	newAdmin := &AdminAccount{
		Email:     email,
		Password:  passwordHash,
		Status:    ADMIN_STATUS_PENDING,
		CreatedAt: time.Now(),
	}
	res, err := dbService.collectionAdminUsers().InsertOne(ctx, newAdmin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	newAdmin.ID = res.InsertedID.(primitive.ObjectID)
	return newAdmin, nil
}

func (dbService *AdminUserDBService) GetAdminByEmail(email string) (*AdminAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var admin AdminAccount
	err := dbService.collectionAdminUsers().FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (dbService *AdminUserDBService) GetAdminByID(id string) (*AdminAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var admin AdminAccount
	err = dbService.collectionAdminUsers().FindOne(ctx, bson.M{"_id": objID}).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (dbService *AdminUserDBService) GetAllAdmins() ([]AdminAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetProjection(bson.D{
		{Key: "password", Value: 0},
		{Key: "resetToken", Value: 0},
	})

	cursor, err := dbService.collectionAdminUsers().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var admins []AdminAccount
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (dbService *AdminUserDBService) CountAdmins() (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionAdminUsers().CountDocuments(ctx, bson.D{})
}

// ApproveAdmin flips a pending admin to active. Returns mongo.ErrNoDocuments
// when the id is unknown or the account is not pending.
func (dbService *AdminUserDBService) ApproveAdmin(id string) (*AdminAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var admin AdminAccount
	err = dbService.collectionAdminUsers().FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID, "status": ADMIN_STATUS_PENDING},
		bson.M{"$set": bson.M{"status": ADMIN_STATUS_ACTIVE}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (dbService *AdminUserDBService) DeleteAdmin(id string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	res, err := dbService.collectionAdminUsers().DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (dbService *AdminUserDBService) SetResetToken(id string, token string, expiresAt time.Time) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = dbService.collectionAdminUsers().UpdateOne(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"resetToken":        token,
			"resetTokenExpires": expiresAt,
		}},
	)
	return err
}

// RedeemResetToken atomically consumes an unexpired reset token and installs
// the new password hash. Returns mongo.ErrNoDocuments for unknown, used or
// expired tokens.
func (dbService *AdminUserDBService) RedeemResetToken(token string, newPasswordHash string) (*AdminAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var admin AdminAccount
	err := dbService.collectionAdminUsers().FindOneAndUpdate(
		ctx,
		bson.M{
			"resetToken":        token,
			"resetTokenExpires": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$set":   bson.M{"password": newPasswordHash},
			"$unset": bson.M{"resetToken": "", "resetTokenExpires": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (dbService *AdminUserDBService) UpdateLastLogin(id string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = dbService.collectionAdminUsers().UpdateOne(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"lastLoginAt": time.Now()}},
	)
	return err
}
