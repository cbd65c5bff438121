package support

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TICKET_TYPE_COMPROMISSO_CONTA = "compromisso_conta"

	TICKET_STATUS_ABERTO    = "aberto"
	TICKET_STATUS_RESOLVIDO = "resolvido"

	NOTIFICATION_TYPE_SEGURANCA = "seguranca"
)

type Ticket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tipo      string             `bson:"tipo" json:"tipo"`
	Status    string             `bson:"status" json:"status"`
	LojistaID string             `bson:"lojistaID" json:"lojista_id"`
	Descricao string             `bson:"descricao,omitempty" json:"descricao,omitempty"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	ResolvedAt time.Time `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

type Notificacao struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Titulo    string             `bson:"titulo" json:"titulo"`
	Mensagem  string             `bson:"mensagem" json:"mensagem"`
	LojistaID string             `bson:"lojistaID" json:"lojista_id"`
	Tipo      string             `bson:"tipo" json:"tipo"`
	Lida      bool               `bson:"lida" json:"lida"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
