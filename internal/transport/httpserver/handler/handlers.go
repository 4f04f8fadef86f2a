package handler

import (
	householddomain "household-ledger-go/internal/domain/household"
	invitationdomain "household-ledger-go/internal/domain/invitation"
	"household-ledger-go/pkg/logger"
)

type Handlers struct {
	Households  *householddomain.Service
	Invitations *invitationdomain.Service
	log         logger.Logger
}

func New(households *householddomain.Service, invitations *invitationdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Households:  households,
		Invitations: invitations,
		log:         log,
	}
}
