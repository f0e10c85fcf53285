package pagination

// Allowed page sizes for lead tables. Requests outside this set fall back to
// the default.
const (
	DefaultSize = 20
	MaxSize     = 250
)

var allowedSizes = []int{20, 50, 100, 250}

// Params holds 1-indexed page navigation state.
type Params struct {
	Page int
	Size int
}

// NormalizeSize snaps the requested size to the closest allowed value,
// defaulting when unset or unknown.
func NormalizeSize(size int) int {
	for _, allowed := range allowedSizes {
		if size == allowed {
			return size
		}
	}
	return DefaultSize
}

// Normalize returns params with a valid size and a page of at least 1.
func Normalize(p Params) Params {
	p.Size = NormalizeSize(p.Size)
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// TotalPages computes ceil(total/size); an empty collection still has one
// (empty) page so navigation has a valid target.
func TotalPages(total, size int) int {
	size = NormalizeSize(size)
	if total <= 0 {
		return 1
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// Slice returns the half-open [lo, hi) bounds of the current page within a
// collection of length total.
func Slice(p Params, total int) (int, int) {
	p = Normalize(p)
	lo := (p.Page - 1) * p.Size
	if lo >= total {
		return total, total
	}
	hi := lo + p.Size
	if hi > total {
		hi = total
	}
	return lo, hi
}

// SetPage returns params moved to the requested page, or unchanged when the
// request falls outside [1, TotalPages]. Out-of-range requests are a no-op
// rather than an error.
func SetPage(p Params, page, total int) Params {
	p = Normalize(p)
	if page < 1 || page > TotalPages(total, p.Size) {
		return p
	}
	p.Page = page
	return p
}

// SetSize switches the page size and resets to the first page.
func SetSize(p Params, size int) Params {
	return Params{Page: 1, Size: NormalizeSize(size)}
}

// Clamp pulls the current page back into range after the underlying
// collection shrinks, so filter changes cannot strand navigation on an empty
// page.
func Clamp(p Params, total int) Params {
	p = Normalize(p)
	if max := TotalPages(total, p.Size); p.Page > max {
		p.Page = max
	}
	return p
}
