package domain

// Upload is a file received from a client. Filename is only consulted
// for its extension; the stored name is always generated server-side.
type Upload struct {
	Filename string
	Content  []byte
}
