package checkout

import "fmt"

// Dedication is advisory text appended to the charge note.
type Dedication struct {
	Name string
	Note string
}

// Intent is the buyer's donation as entered on the form. The session takes
// an immutable snapshot of it on open and on every amount/fee edit.
type Intent struct {
	BaseCents  int64
	Fund       string
	CoverFees  bool
	DonorName  string
	DonorEmail string
	Dedication *Dedication
}

func (i Intent) Total() Total {
	return ComputeTotal(i.BaseCents, i.CoverFees)
}

// Note renders the advisory metadata the way the backend appends it to the
// provider charge.
func (i Intent) Note() string {
	if i.Dedication == nil {
		return ""
	}
	if i.Dedication.Note == "" {
		return fmt.Sprintf("Dedicated to %s", i.Dedication.Name)
	}
	return fmt.Sprintf("Dedicated to %s: %s", i.Dedication.Name, i.Dedication.Note)
}
