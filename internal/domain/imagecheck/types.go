package imagecheck

// Metadata carries what a check learned about the remote image. Fields are
// populated as far as the check got; a probe never fills decode fields.
type Metadata struct {
	StatusCode    int    `json:"status_code,omitempty"`
	ContentType   string `json:"content_type,omitempty"`
	ContentLength int64  `json:"content_length,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	Format        string `json:"format,omitempty"`
	Mode          string `json:"mode,omitempty"`
	SizeBytes     int64  `json:"size_bytes,omitempty"`
}

// CheckResult is the tuple every check returns. No error ever crosses this
// package's boundary; failures are folded into Valid=false plus a bounded
// diagnostic message.
type CheckResult struct {
	Valid   bool
	Message string
	Meta    *Metadata
}

func invalid(message string) CheckResult {
	return CheckResult{Valid: false, Message: message}
}

func invalidWithMeta(message string, meta *Metadata) CheckResult {
	return CheckResult{Valid: false, Message: message, Meta: meta}
}
