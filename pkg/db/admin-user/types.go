package adminuser

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ADMIN_STATUS_PENDING = "pending"
	ADMIN_STATUS_ACTIVE  = "active"

	// value of the bootstrap marker held by the single master admin row,
	// guarded by a unique sparse index
	BOOTSTRAP_MARKER_MASTER = "master"
)

type AdminAccount struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Status   string             `bson:"status" json:"status"`

	// set only on the first-ever admin (the "master" account)
	BootstrapMarker string `bson:"bootstrapMarker,omitempty" json:"-"`

	ResetToken        string    `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpires time.Time `bson:"resetTokenExpires,omitempty" json:"-"`

	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	LastLoginAt time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}

func (a AdminAccount) IsMaster() bool {
	return a.BootstrapMarker == BOOTSTRAP_MARKER_MASTER
}
