package main

import "sync"

// Page is a navigable page token.
type Page string

const (
	PageHome    Page = "home"
	PageGallery Page = "gallery"
	PagePricing Page = "pricing"
	PageAbout   Page = "about"
	PageCustom  Page = "custom"
	PageContact Page = "contact"
	PageAdmin   Page = "admin"
)

var pageSet = map[Page]bool{
	PageHome:    true,
	PageGallery: true,
	PagePricing: true,
	PageAbout:   true,
	PageCustom:  true,
	PageContact: true,
	PageAdmin:   true,
}

// KnownPage maps a raw token to a Page, reporting whether it is one of the
// fixed set.
func KnownPage(token string) (Page, bool) {
	p := Page(token)
	return p, pageSet[p]
}

// PageRouter holds the single current-page value. Navigate replaces it
// unconditionally; navigating to the admin page is not guarded here, the
// admin gate authorizes at render time. There is no history stack.
type PageRouter struct {
	mu      sync.Mutex
	current Page
}

func NewPageRouter() *PageRouter {
	return &PageRouter{current: PageHome}
}

func (r *PageRouter) Navigate(p Page) {
	r.mu.Lock()
	r.current = p
	r.mu.Unlock()
}

func (r *PageRouter) Current() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
