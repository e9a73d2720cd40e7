package handler

import (
	"github.com/julienschmidt/httprouter"

	"salonhours/pkg/contracts"
)

// Routes mounts several handlers on one router.
type Routes []contracts.Handler

func (rs Routes) RegisterRoutes(router *httprouter.Router) {
	for _, h := range rs {
		h.RegisterRoutes(router)
	}
}
