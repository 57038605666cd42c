package domain

// Zero overwrites b with zeros. Used on secret and derived key material once it
// is no longer needed.
func Zero(b []byte) {
	clear(b)
}
