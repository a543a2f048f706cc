package board

import (
	"net/url"
	"strconv"

	"cokothon/models"
)

// Row is one numbered line of the board table.
type Row struct {
	Number int64
	Board  models.Board
}

type PageLink struct {
	Label    string
	URL      string
	Active   bool
	Disabled bool
}

// Listing is the render model of a board table and its pagination.
type Listing struct {
	Rows          []Row
	Number        int
	Size          int
	TotalPages    int
	TotalElements int64
	First         PageLink
	Prev          PageLink
	Pages         []PageLink
	Next          PageLink
	Last          PageLink
}

func (l Listing) Empty() bool { return len(l.Rows) == 0 }

// ShowPagination reports whether there is more than one page.
func (l Listing) ShowPagination() bool { return l.TotalPages > 1 }

// NewListing numbers rows in descending order from the page metadata and
// builds pagination links on basePath. extra is carried into every link.
func NewListing(p *models.Page[models.Board], requestedSize int, basePath string, extra url.Values) Listing {
	if p == nil {
		return Listing{Size: requestedSize}
	}
	size := p.Size
	if size <= 0 {
		size = requestedSize
	}
	l := Listing{
		Number:        p.Number,
		Size:          size,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
	}
	for i, b := range p.Content {
		l.Rows = append(l.Rows, Row{
			Number: p.TotalElements - int64(p.Number)*int64(size) - int64(i),
			Board:  b,
		})
	}
	if p.TotalPages <= 1 {
		return l
	}

	link := func(page int, label string) PageLink {
		q := url.Values{}
		for k, v := range extra {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("size", strconv.Itoa(size))
		return PageLink{Label: label, URL: basePath + "?" + q.Encode()}
	}
	last := p.TotalPages - 1
	onFirst, onLast := p.Number <= 0, p.Number >= last

	l.First = link(0, "처음")
	l.First.Disabled = onFirst
	l.Prev = link(p.Number-1, "이전")
	l.Prev.Disabled = onFirst
	l.Next = link(p.Number+1, "다음")
	l.Next.Disabled = onLast
	l.Last = link(last, "마지막")
	l.Last.Disabled = onLast
	from, to := pageWindow(p.Number, p.TotalPages)
	for i := from; i < to; i++ {
		pl := link(i, strconv.Itoa(i+1))
		pl.Active = i == p.Number
		l.Pages = append(l.Pages, pl)
	}
	return l
}

// pageWindow returns the [from, to) range of numbered links, at most
// MaxPageLinks wide and centered on the current page where possible.
func pageWindow(current, total int) (from, to int) {
	if total <= MaxPageLinks {
		return 0, total
	}
	from = current - MaxPageLinks/2
	if from < 0 {
		from = 0
	}
	if from > total-MaxPageLinks {
		from = total - MaxPageLinks
	}
	return from, from + MaxPageLinks
}
