package controller

// List item types.
type verdictItem struct {
	row verdict
}

func (v verdictItem) FilterValue() string {
	return v.row.unit + " " + v.row.callable
}
