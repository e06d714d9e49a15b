package controllers

import (
	"net/http"

	"github.com/km-arc/go-rh-forms/framework/app"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

// Verdicts is the JSON answer of the validation API.
type Verdicts struct {
	Kind   string                        `json:"kind"`
	Valid  bool                          `json:"valid"`
	Fields map[string]validation.Verdict `json:"fields"`
	Errors map[string]string             `json:"errors"`
}

// ValidateController runs both validation stages on a submission without
// storing anything.
type ValidateController struct {
	app.Controller
	deps      *Deps
	resources map[string]*Resource
}

func NewValidateController(deps *Deps, resources []*Resource) *ValidateController {
	c := &ValidateController{deps: deps, resources: make(map[string]*Resource, len(resources))}
	for _, r := range resources {
		c.resources[r.Name] = r
	}
	return c
}

// Validate handles POST /api/validate/{resource}.
func (c *ValidateController) Validate(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	resource, ok := c.resources[req.RouteParam("resource")]
	if !ok {
		res.NotFound()
		return
	}
	fields, err := req.Fields()
	if err != nil {
		res.Error(http.StatusBadRequest, "Requête invalide.")
		return
	}
	sub, err := c.deps.submit(resource, fields)
	if err != nil {
		c.deps.Log.Error().Err(err).Str("resource", resource.Name).Msg("validate")
		res.ServerError()
		return
	}

	out := Verdicts{
		Kind:   sub.Engine.Kind().String(),
		Valid:  sub.Valid(),
		Fields: make(map[string]validation.Verdict),
		Errors: make(map[string]string),
	}
	for _, el := range sub.Engine.Fields() {
		key := el.ID()
		if key == "" {
			key, _ = el.Attr("name")
		}
		if v, ok := sub.Engine.State(key); ok {
			out.Fields[key] = v
		}
	}
	for key, msg := range sub.Server.Bag {
		out.Errors[key] = msg
		if v := out.Fields[key]; v.Valid {
			out.Fields[key] = validation.Fail(msg)
		}
	}
	for key, msg := range sub.Client.Messages.Bag {
		out.Errors[key] = msg
	}
	res.Success(out)
}
