package gear

import "github.com/shopspring/decimal"

// templateItem is one catalog entry applied by the starter template.
type templateItem struct {
	Name     string
	WeightG  int64
	Quantity int
}

type templateCategory struct {
	Name  string
	Items []templateItem
}

// starterTemplate is the default camping checklist applied on request.
var starterTemplate = []templateCategory{
	{
		Name: "Tenda & Tidur",
		Items: []templateItem{
			{Name: "Tenda dome 2P", WeightG: 2400, Quantity: 1},
			{Name: "Sleeping bag", WeightG: 900, Quantity: 1},
			{Name: "Matras", WeightG: 350, Quantity: 1},
		},
	},
	{
		Name: "Masak & Makan",
		Items: []templateItem{
			{Name: "Kompor portable", WeightG: 300, Quantity: 1},
			{Name: "Gas kaleng", WeightG: 230, Quantity: 2},
			{Name: "Nesting set", WeightG: 500, Quantity: 1},
		},
	},
	{
		Name: "Pakaian",
		Items: []templateItem{
			{Name: "Jaket gunung", WeightG: 600, Quantity: 1},
			{Name: "Baju ganti", WeightG: 200, Quantity: 2},
			{Name: "Jas hujan", WeightG: 250, Quantity: 1},
		},
	},
	{
		Name: "Lain-lain",
		Items: []templateItem{
			{Name: "Headlamp", WeightG: 90, Quantity: 1},
			{Name: "P3K", WeightG: 300, Quantity: 1},
			{Name: "Botol air 1L", WeightG: 150, Quantity: 2},
		},
	},
}

func (t templateItem) weight() decimal.Decimal {
	return decimal.NewFromInt(t.WeightG)
}
