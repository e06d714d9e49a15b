// Package http provides the request, response and view helpers used by the
// application controllers.
//
//	req := gohttp.NewRequest(r)
//	fields, err := req.Fields()        // url-encoded, multipart or JSON object
//	filters := req.QueryIndexed("f")   // ?f2=CADRE → {2: "CADRE"}
//
//	res := gohttp.NewResponse(w)
//	res.ValidationError(&messages)     // 422 {"errors": {"field": "msg"}}
//	res.Document(http.StatusUnprocessableEntity, doc)
//	res.SeeOther("/employees")
//
//	views := gohttp.NewViewEngine(viewsFS, "layout", ".html")
//	doc, err := views.Document("employee_form", data)
package http
