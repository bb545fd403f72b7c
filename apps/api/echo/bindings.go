package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
)

var (
	moduleParam = "module"

	// warnAgent identifies this API in Warning headers
	warnAgent = "atf"
)

// Module is the quiz module selected by the `module` query param, "all" by default.
type Module struct {
	ID string
}

func (m *Module) Bind(ctx echo.Context) {
	m.ID = course.AllModules
	if val := core.CleanString(ctx.QueryParam(moduleParam)); val != "" {
		m.ID = val
	}
}

// setWarnings reports the failed persisted writes of a request in `Warning: 199` headers:
// the change is applied but may not survive a reload.
func setWarnings(ctx echo.Context, results ...core.WriteResult) {
	for _, w := range core.WriteResults(results).Warnings() {
		ctx.Response().Header().Add("Warning", "199 "+warnAgent+" "+strconv.Quote(w))
	}
}
