package models

// CompanyProfile is the single business-identity record rendered on
// every invoice document. Saved wholesale; there is no partial update.
type CompanyProfile struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`

	// Base64 data URIs, capped at 500 KB each at upload time.
	Logo   string `json:"logo,omitempty"`
	QRCode string `json:"qrCode,omitempty"`

	TermsAndConditions string `json:"termsAndConditions,omitempty"`

	// Collected for completeness, not rendered on any output path.
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSCCode      string `json:"ifscCode,omitempty"`
	BranchName    string `json:"branchName,omitempty"`
}
