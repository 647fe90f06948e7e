package tax

// DisplayRow is one rendered line of the tax table for the active side.
type DisplayRow struct {
	Name    string
	Kind    Kind
	Amount  Rate
	IsTotal bool
}

// TotalRowName labels the synthetic aggregate row.
const TotalRowName = "Total Tax"

// MergeCustomTax folds the live user-entered custom percentage into a fetched
// tax set for one trade side. It returns the rows to display and the
// effective total used for slippage bounds and the adjusted quote.
//
// Rows whose amount for the active side is zero are suppressed from display
// but still counted in the total. The Total row always comes last. The set is
// not mutated, so merging the same percentage twice yields identical output.
//
// A nil or empty set means no tax information is available: the total is
// zero and the trade proceeds at the nominal quote, custom percentage
// included only when a structure with a custom slot exists.
func MergeCustomTax(set *Set, custom Rate, side Side) ([]DisplayRow, Rate) {
	if set == nil || len(set.Components) == 0 {
		return nil, 0
	}

	rows := make([]DisplayRow, 0, len(set.Components)+1)
	var total Rate
	for _, c := range set.Components {
		amount := c.Amount(side)
		if c.Kind == KindCustom {
			amount = custom
		}
		total += amount
		if amount.IsZero() {
			continue
		}
		rows = append(rows, DisplayRow{
			Name:   c.Name,
			Kind:   c.Kind,
			Amount: amount,
		})
	}

	if !total.IsZero() {
		rows = append(rows, DisplayRow{
			Name:    TotalRowName,
			Amount:  total,
			IsTotal: true,
		})
	}
	return rows, total
}
