package planning

import (
	"fmt"
	"net/http"
)

func (app *Planning) apiRoutes(prefix string, mux *http.ServeMux) {
	apiPrefix := fmt.Sprintf("/%s/api", prefix)

	app.calendarRoutes(apiPrefix, mux)
}

func (app *Planning) Routes(prefix string, mux *http.ServeMux) {
	app.apiRoutes(prefix, mux)
}
