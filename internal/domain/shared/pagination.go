package shared

// Page addresses a slice of a result set by page number and size.
//
// PageFromOffset converts the API's from/size pair into a page the way the
// upstream system always did: page index = from / size with truncating
// division. A from that is not a multiple of size therefore snaps back to
// the nearest page boundary instead of acting as a row offset. Compatible
// clients depend on this, so it is kept as-is.
type Page struct {
	Number int
	Size   int
}

// PageFromOffset builds a Page from a from/size query pair.
func PageFromOffset(from, size int) (Page, error) {
	if from < 0 || size <= 0 {
		return Page{}, NewValidationError("pagination parameters are invalid: from must be >= 0 and size > 0")
	}
	return Page{Number: from / size, Size: size}, nil
}

// Offset returns the row offset of the page start.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// Limit returns the maximum number of rows on the page.
func (p Page) Limit() int {
	return p.Size
}
