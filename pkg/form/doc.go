// Package form provides field validators and ordered validation rules for
// HTML forms.
//
// # Overview
//
// A Validator checks one value. Rules binds validators to the fields of a
// struct type and produces a fresh field → message map on every Check call;
// nothing is merged with a previous result.
//
// # Basic Usage
//
//	type Contact struct {
//	    Name  string
//	    Email string
//	}
//
//	rules := form.NewRules[Contact]().
//	    Add("name", func(c Contact) any { return c.Name },
//	        form.Required("Name is required")).
//	    Add("email", func(c Contact) any { return c.Email },
//	        form.Required("Email is required"),
//	        form.Pattern(`\S+@\S+\.\S+`, "Email is invalid"))
//
//	errs := rules.Check(Contact{Name: "Jane"})
//	// errs == form.Errors{"email": "Email is required"}
//
// Validators listed for one field run in order and the first failure wins.
// Fields are always checked independently of each other.
package form
