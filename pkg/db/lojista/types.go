package lojista

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LojistaAccount struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Nome     string             `bson:"nome" json:"nome"`
	Telefone string             `bson:"telefone,omitempty" json:"telefone,omitempty"`

	EmailVerificado     bool `bson:"emailVerificado" json:"email_verificado"`
	VerificacaoIgnorada bool `bson:"verificacaoIgnorada" json:"verificacao_ignorada"`

	// security lock (account-compromise incident); cleared only by resolving
	// the matching support ticket
	Bloqueado bool `bson:"bloqueado" json:"bloqueado"`
	// billing lock, owned by billing workflows; independent of Bloqueado
	AcessoBloqueado bool `bson:"acessoBloqueado" json:"acesso_bloqueado"`

	TokenVerificacao       string    `bson:"tokenVerificacao,omitempty" json:"-"`
	TokenRedefinicao       string    `bson:"tokenRedefinicao,omitempty" json:"-"`
	TokenRedefinicaoExpira time.Time `bson:"tokenRedefinicaoExpira,omitempty" json:"-"`
	SecurityToken          string    `bson:"securityToken,omitempty" json:"-"`

	TwoFactorEnabled bool   `bson:"twoFactorEnabled" json:"two_factor_enabled"`
	TwoFactorSecret  string `bson:"twoFactorSecret,omitempty" json:"-"`

	// plan attributes are read here but owned by billing
	Plano string `bson:"plano,omitempty" json:"plano,omitempty"`

	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	LastLoginAt time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}

// LoginAllowed reports whether the verification gate lets this account in.
func (l LojistaAccount) LoginAllowed() bool {
	return l.EmailVerificado || l.VerificacaoIgnorada
}
