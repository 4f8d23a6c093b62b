package service

// QRCodeService renders share codes for public post URLs.
type QRCodeService interface {
	// GeneratePostQR returns a PNG encoding the public URL of the post with the given slug.
	GeneratePostQR(slug string) ([]byte, error)

	// PostURL returns the public URL encoded into the share code.
	PostURL(slug string) string
}
