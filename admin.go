package main

import (
	"html/template"
	"log"
	"net/http"
	"path/filepath"
)

func renderAdminTemplate(w http.ResponseWriter, tmpl string, data any) {
	templatesDir := "templates/admin"

	templates, err := template.ParseFiles(
		filepath.Join(templatesDir, tmpl+".html"),
		filepath.Join(templatesDir, "layout.html"),
	)
	if err != nil {
		log.Printf("Error parsing admin template %s: %v", tmpl, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	err = templates.ExecuteTemplate(w, tmpl+".html", data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type adminLoginData struct {
	Delegated bool
	Email     string
	Error     string
}

// RequireAdmin renders the login prompt in place of the guarded view while
// the gate is logged out. The admin page token itself is freely navigable;
// authorization happens here, at render time.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !adminGate.IsAdmin() {
			renderAdminTemplate(w, "login", adminLoginData{
				Delegated: adminGate.Mode() == ModeDelegated,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type adminSubmissionsData struct {
	Bookings []Submission
	Messages []Submission
	Total    int
}

// AdminSubmissions lists the most recent submissions, newest first, split
// into the two streams. This is a point-in-time snapshot; new submissions
// show up on the next manual reload.
func AdminSubmissions(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PageAdmin)

	records := submissionService.ListRecentSubmissions(r.Context())

	data := adminSubmissionsData{Total: len(records)}
	for _, rec := range records {
		switch rec.Kind {
		case KindCustomBooking:
			data.Bookings = append(data.Bookings, rec)
		case KindContactMessage:
			data.Messages = append(data.Messages, rec)
		}
	}

	renderAdminTemplate(w, "submissions", data)
}

// AdminLogin handles the login form for whichever mode is configured.
// Failed attempts re-render inline with no lockout or backoff.
func AdminLogin(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PageAdmin)

	if adminGate.Mode() == ModeDelegated {
		email := r.FormValue("email")
		password := r.FormValue("password")
		if err := adminGate.AttemptCredentials(email, password); err != nil {
			renderAdminTemplate(w, "login", adminLoginData{
				Delegated: true,
				Email:     email,
				Error:     err.Error(),
			})
			return
		}
	} else {
		if err := adminGate.AttemptPassword(r.FormValue("password")); err != nil {
			renderAdminTemplate(w, "login", adminLoginData{
				Error: "Wrong password.",
			})
			return
		}
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func AdminLogout(w http.ResponseWriter, r *http.Request) {
	adminGate.Logout()
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
