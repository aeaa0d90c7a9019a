package models

// ContentTypeResponse describes a content type for the JSON API.
type ContentTypeResponse struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Extensions []string `json:"extensions"`
	HelpText   string   `json:"help_text"`
	Accept     string   `json:"accept,omitempty"`
	Modality   string   `json:"modality"`
}

// WizardStateResponse contains the persisted wizard fields and whether submission is possible.
type WizardStateResponse struct {
	QRName          string `json:"qrName"`
	ContentType     string `json:"contentType"`
	PasswordProtect bool   `json:"passwordProtect"`
	SelfDestruct    bool   `json:"selfDestruct"`
	DestructViews   bool   `json:"destructViews"`
	DestructTime    bool   `json:"destructTime"`
	ViewsValue      string `json:"viewsValue"`
	TimeValue       string `json:"timeValue"`
	CanGenerate     bool   `json:"canGenerate"`
}
