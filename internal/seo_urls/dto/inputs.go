package dto

// ListSeoUrlsInput represents the input for the SEO URL overview
type ListSeoUrlsInput struct {
	Page       int  `query:"page" minimum:"1" default:"1" description:"Page number"`
	Num        int  `query:"num" minimum:"1" maximum:"500" default:"20" description:"Entries per page"`
	ShowLocked bool `query:"show_locked" default:"false" description:"Include locked system routes"`
}

// GetSeoUrlInput addresses the SEO URL of a controller action
type GetSeoUrlInput struct {
	Controller string `path:"ctrl" minLength:"1" description:"Controller ID, e.g. system.backend.seo_url_config"`
	Action     string `path:"action" minLength:"1" description:"Action method name, e.g. seoUrlOverviewAction"`
}

// SaveSeoUrlInput represents the admin edit submission. Fields are optional
// in the schema so missing ones are reported as error fields instead of
// a generic 422.
type SaveSeoUrlInput struct {
	Controller string `path:"ctrl" minLength:"1" description:"Controller ID"`
	Action     string `path:"action" minLength:"1" description:"Action method name"`
	Body       struct {
		Path   string `json:"c_url,omitempty" maxLength:"500" description:"SEO URL path template"`
		Active *bool  `json:"active,omitempty" description:"Whether the SEO URL is active"`
	}
}

// RefreshSeoUrlsInput triggers a reconciliation
type RefreshSeoUrlsInput struct {
	Body *struct {
		RemoveStale bool `json:"remove_stale" default:"false" description:"Delete SEO URLs whose action no longer exists. Discards custom paths."`
		DryRun      bool `json:"dry_run,omitempty" default:"false" description:"Only report what would change"`
	} `required:"false"`
}

// Options returns the requested flags; a missing body means add-only
func (i *RefreshSeoUrlsInput) Options() (removeStale, dryRun bool) {
	if i.Body == nil {
		return false, false
	}
	return i.Body.RemoveStale, i.Body.DryRun
}

// StatusInput represents the module status request
type StatusInput struct{}
