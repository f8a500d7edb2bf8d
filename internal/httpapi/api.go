// Package httpapi is the request/response glue over the store, the
// hierarchy resolver and the tally engine. Identifier validation happens
// here; the inner components only ever see ids they can fail to resolve.
package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/voxlive/vox-backend/internal/auth"
	"github.com/voxlive/vox-backend/internal/hierarchy"
	"github.com/voxlive/vox-backend/internal/mailer"
	"github.com/voxlive/vox-backend/internal/store"
	"github.com/voxlive/vox-backend/internal/tally"
)

type API struct {
	store    *store.Store
	auth     *auth.Auth
	resolver *hierarchy.Resolver
	tally    *tally.Engine
	mail     mailer.Mailer
	appURL   string
	log      *zap.Logger
}

func New(st *store.Store, au *auth.Auth, mail mailer.Mailer, appURL string, log *zap.Logger) *API {
	return &API{
		store:    st,
		auth:     au,
		resolver: hierarchy.NewResolver(st),
		tally:    tally.NewEngine(st),
		mail:     mail,
		appURL:   appURL,
		log:      log,
	}
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("encoding response failed", zap.Error(err))
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"error": msg})
}

func (a *API) writeMessage(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"message": msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
