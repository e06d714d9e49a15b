package controllers

import (
	"net/http"

	"github.com/km-arc/go-rh-forms/framework/app"
	"github.com/km-arc/go-rh-forms/framework/password"
)

// LoginController renders the sign-in page.
type LoginController struct {
	app.Controller
	deps *Deps
}

func NewLoginController(deps *Deps) *LoginController {
	return &LoginController{deps: deps}
}

// Show handles GET /login. ?show=1 renders the password in plain text, the
// state a click on the eye button leaves it in.
func (c *LoginController) Show(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	doc, err := c.deps.Views.Document("login", c.deps.page("Connexion"))
	if err != nil {
		c.deps.Log.Error().Err(err).Msg("render login")
		res.ServerError()
		return
	}
	toggle := password.Bind(doc, "togglePassword", "password")
	if req.Query("show") == "1" {
		toggle.Click()
	}
	res.Document(http.StatusOK, doc)
}
