package controllers

import (
	"net/http"

	"github.com/openshelf/storefront-backend/api/responses"
	"github.com/openshelf/storefront-backend/pkg/db"
	pkgerrors "github.com/openshelf/storefront-backend/pkg/errors"
	"github.com/openshelf/storefront-backend/pkg/logger"
)

var dbViewTables = []string{"users", "products", "cart_lines", "orders", "order_lines"}

// DBView dumps every table for local inspection. The route is only mounted
// outside production.
func DBView(client *db.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database unavailable"))
			return
		}

		dump := make(map[string][]map[string]any, len(dbViewTables))
		for _, table := range dbViewTables {
			rows := []map[string]any{}
			if err := client.DB().WithContext(r.Context()).Table(table).Find(&rows).Error; err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dump table "+table))
				return
			}
			dump[table] = rows
		}

		responses.WriteSuccess(w, dump)
	}
}
