package main

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"solecraft/constants"
)

type contextKey string

const visitorIDKey contextKey = "visitor_id"

// VisitorIdentity assigns every browser a stable opaque subject id, recorded
// on each submission as the submitter.
func VisitorIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("visitor_id"); err != nil {
			subject := identityService.AnonymousSubject()
			http.SetCookie(w, &http.Cookie{
				Name:     "visitor_id",
				Value:    subject,
				Path:     "/",
				HttpOnly: true,
			})
			r = r.WithContext(context.WithValue(r.Context(), visitorIDKey, subject))
		}
		next.ServeHTTP(w, r)
	})
}

// visitorID resolves the submitter id for a request: the visitor cookie, the
// id minted earlier in this request, or the service session from startup.
func visitorID(r *http.Request) string {
	if cookie, err := r.Cookie("visitor_id"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if subject, ok := r.Context().Value(visitorIDKey).(string); ok {
		return subject
	}
	if sess := identityService.CurrentSession(); sess != nil {
		return sess.SubjectID
	}
	return ""
}

func renderSiteTemplate(w http.ResponseWriter, tmpl string, data any) {
	templates, err := template.ParseFiles(
		filepath.Join("templates", tmpl+".html"),
		filepath.Join("templates", "layout.html"),
	)
	if err != nil {
		log.Printf("Error parsing template %s: %v", tmpl, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	err = templates.ExecuteTemplate(w, tmpl+".html", data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type galleryItem struct {
	Title       string
	Model       string
	Description string
}

type pricingTier struct {
	Name        string
	Price       string
	Description string
	Includes    []string
}

var galleryItems = []galleryItem{
	{Title: "Koi Pond AF1", Model: "Air Force 1", Description: "Hand-painted koi wrapping the swoosh into the heel."},
	{Title: "Desert Fade Dunks", Model: "Dunk Low", Description: "Airbrushed sunset gradient with stitched cactus details."},
	{Title: "Stained Glass Jordans", Model: "Jordan 1 Mid", Description: "Cathedral-window panels in leather paint."},
	{Title: "Pizza White 70s", Model: "Chuck 70", Description: "The house classic. Marinara drips on crisp white canvas."},
	{Title: "Topo Map Runners", Model: "Pegasus", Description: "Contour lines of the customer's favorite trail."},
	{Title: "Ivy League Loafers", Model: "Penny Loafer", Description: "Embroidered ivy with gold-leaf accents."},
}

var pricingTiers = []pricingTier{
	{
		Name:        "Refresh",
		Price:       "from $90",
		Description: "Cleaning, repaint of factory colors, new laces.",
		Includes:    []string{"Deep clean", "Sole whitening", "Color touch-up"},
	},
	{
		Name:        "Signature",
		Price:       "from $180",
		Description: "One-panel custom artwork on shoes you send in.",
		Includes:    []string{"Design consultation", "Hand-painted panel", "Finishing sealant"},
	},
	{
		Name:        "Full Canvas",
		Price:       "from $320",
		Description: "Every panel reworked to your design brief.",
		Includes:    []string{"Two design revisions", "All-panel artwork", "Custom box and extras"},
	},
}

func HomePage(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PageHome)
	renderSiteTemplate(w, "home", nil)
}

func GalleryPage(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PageGallery)
	renderSiteTemplate(w, "gallery", struct{ Items []galleryItem }{galleryItems})
}

func PricingPage(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PagePricing)
	renderSiteTemplate(w, "pricing", struct{ Tiers []pricingTier }{pricingTiers})
}

func AboutPage(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PageAbout)
	renderSiteTemplate(w, "about", nil)
}

type customFormData struct {
	BudgetRanges []string
	Form         BookingInput
	Error        string
	SubmittedID  string
}

func newCustomFormData() customFormData {
	return customFormData{BudgetRanges: constants.BUDGET_RANGES[:]}
}

func CustomForm(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PageCustom)
	renderSiteTemplate(w, "custom", newCustomFormData())
}

func CustomSubmit(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PageCustom)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, "Error reading form", http.StatusBadRequest)
			return
		}
	}

	input := BookingInput{
		Name:              r.FormValue("name"),
		Email:             r.FormValue("email"),
		ShoeModel:         r.FormValue("shoeModel"),
		DesignDescription: r.FormValue("designDescription"),
		BudgetRange:       r.FormValue("budgetRange"),
		Attachment:        attachmentFromRequest(r),
	}

	data := newCustomFormData()
	data.Form = input

	id, err := submissionService.SubmitCustomBooking(r.Context(), visitorID(r), input)
	if err != nil {
		data.Error = submitErrorText(err)
		renderSiteTemplate(w, "custom", data)
		return
	}

	data.Form = BookingInput{}
	data.SubmittedID = id
	renderSiteTemplate(w, "custom", data)
}

// attachmentFromRequest reads the descriptor of an offered reference image
// from the multipart header. The file bytes are never stored.
func attachmentFromRequest(r *http.Request) *AttachmentDescriptor {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File["attachment"]
	if len(files) == 0 {
		return nil
	}
	h := files[0]
	return &AttachmentDescriptor{
		Name: h.Filename,
		Size: h.Size,
		Mime: h.Header.Get("Content-Type"),
	}
}

type contactFormData struct {
	Form        ContactInput
	Error       string
	SubmittedID string
}

func ContactForm(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PageContact)
	renderSiteTemplate(w, "contact", contactFormData{})
}

func ContactSubmit(w http.ResponseWriter, r *http.Request) {
	pageRouter.Navigate(PageContact)

	input := ContactInput{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}

	data := contactFormData{Form: input}
	id, err := submissionService.SubmitContactMessage(r.Context(), visitorID(r), input)
	if err != nil {
		data.Error = submitErrorText(err)
		renderSiteTemplate(w, "contact", data)
		return
	}

	renderSiteTemplate(w, "contact", contactFormData{SubmittedID: id})
}

// submitErrorText maps service errors to the inline text shown next to the
// form. Store failure details pass through; nothing is retried automatically.
func submitErrorText(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "Please check the form: " + vErr.Error() + "."
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return "We couldn't save your request right now. Please try again later."
	}
	return err.Error()
}
