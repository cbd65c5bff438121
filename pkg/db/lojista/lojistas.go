package lojista

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateEmail = errors.New("email already in use")

func (dbService *LojistaDBService) CreateLojista(newLojista *LojistaAccount) (*LojistaAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	newLojista.CreatedAt = time.Now()
	res, err := dbService.collectionLojistas().InsertOne(ctx, newLojista)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	newLojista.ID = res.InsertedID.(primitive.ObjectID)
	return newLojista, nil
}

func (dbService *LojistaDBService) GetLojistaByEmail(email string) (*LojistaAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var lj LojistaAccount
	err := dbService.collectionLojistas().FindOne(ctx, bson.M{"email": email}).Decode(&lj)
	if err != nil {
		return nil, err
	}
	return &lj, nil
}

func (dbService *LojistaDBService) GetLojistaByID(id string) (*LojistaAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var lj LojistaAccount
	err = dbService.collectionLojistas().FindOne(ctx, bson.M{"_id": objID}).Decode(&lj)
	if err != nil {
		return nil, err
	}
	return &lj, nil
}

func (dbService *LojistaDBService) UpdateLojista(id string, update bson.M) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	res, err := dbService.collectionLojistas().UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RedeemVerificationToken atomically consumes an email-verification token and
// marks the account verified. Unknown or already-used tokens return
// mongo.ErrNoDocuments.
func (dbService *LojistaDBService) RedeemVerificationToken(token string) (*LojistaAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var lj LojistaAccount
	err := dbService.collectionLojistas().FindOneAndUpdate(
		ctx,
		bson.M{"tokenVerificacao": token},
		bson.M{
			"$set":   bson.M{"emailVerificado": true},
			"$unset": bson.M{"tokenVerificacao": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&lj)
	if err != nil {
		return nil, err
	}
	return &lj, nil
}

func (dbService *LojistaDBService) SetVerificationToken(id string, token string) error {
	return dbService.UpdateLojista(id, bson.M{"$set": bson.M{"tokenVerificacao": token}})
}

func (dbService *LojistaDBService) SetPasswordResetToken(id string, token string, expiresAt time.Time) error {
	return dbService.UpdateLojista(id, bson.M{"$set": bson.M{
		"tokenRedefinicao":       token,
		"tokenRedefinicaoExpira": expiresAt,
	}})
}

// RedeemPasswordResetToken atomically consumes an unexpired reset token,
// installs the new password hash and arms a fresh security token for the
// "account compromised" link in the password-changed notification.
func (dbService *LojistaDBService) RedeemPasswordResetToken(token string, newPasswordHash string, securityToken string) (*LojistaAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var lj LojistaAccount
	err := dbService.collectionLojistas().FindOneAndUpdate(
		ctx,
		bson.M{
			"tokenRedefinicao":       token,
			"tokenRedefinicaoExpira": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$set": bson.M{
				"password":      newPasswordHash,
				"securityToken": securityToken,
			},
			"$unset": bson.M{"tokenRedefinicao": "", "tokenRedefinicaoExpira": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&lj)
	if err != nil {
		return nil, err
	}
	return &lj, nil
}

// LockBySecurityToken atomically consumes a security token and sets the
// account's security lock. Unknown or already-used tokens return
// mongo.ErrNoDocuments.
func (dbService *LojistaDBService) LockBySecurityToken(token string) (*LojistaAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var lj LojistaAccount
	err := dbService.collectionLojistas().FindOneAndUpdate(
		ctx,
		bson.M{"securityToken": token},
		bson.M{
			"$set":   bson.M{"bloqueado": true},
			"$unset": bson.M{"securityToken": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&lj)
	if err != nil {
		return nil, err
	}
	return &lj, nil
}

func (dbService *LojistaDBService) ClearSecurityLock(id string) error {
	return dbService.UpdateLojista(id, bson.M{"$set": bson.M{"bloqueado": false}})
}

func (dbService *LojistaDBService) SetTwoFactorSecret(id string, secret string) error {
	return dbService.UpdateLojista(id, bson.M{"$set": bson.M{"twoFactorSecret": secret}})
}

func (dbService *LojistaDBService) EnableTwoFactor(id string) error {
	return dbService.UpdateLojista(id, bson.M{"$set": bson.M{"twoFactorEnabled": true}})
}

func (dbService *LojistaDBService) DisableTwoFactor(id string) error {
	return dbService.UpdateLojista(id, bson.M{
		"$set":   bson.M{"twoFactorEnabled": false},
		"$unset": bson.M{"twoFactorSecret": ""},
	})
}

func (dbService *LojistaDBService) UpdateLastLogin(id string) error {
	return dbService.UpdateLojista(id, bson.M{"$set": bson.M{"lastLoginAt": time.Now()}})
}
