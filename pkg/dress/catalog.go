package dress

// DefaultCatalog returns the built-in dresses used when a seed request has
// no payload and no gallery page can be parsed.
func DefaultCatalog() []Record {
	return []Record{
		{ID: 1, Name: "Elegant Wedding Dress", Price: 299, Type: TypeWedding, Sizes: []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL}, Colour: "white", Image: "fbdscoleyharrop-209.jpg"},
		{ID: 2, Name: "Casual Summer Dress", Price: 149, Type: TypeCasual, Sizes: []Size{SizeS, SizeM, SizeL}, Colour: "blue", Image: "fbdscoleyharrop-205.jpg"},
		{ID: 3, Name: "Evening Gown", Price: 399, Type: TypeEvening, Sizes: []Size{SizeXS, SizeS, SizeM, SizeL}, Colour: "black", Image: "fbdscoleyharrop-100.jpg"},
		{ID: 4, Name: "Cocktail Dress", Price: 199, Type: TypeCocktail, Sizes: []Size{SizeXS, SizeS, SizeM, SizeL}, Colour: "red", Image: "fbdscoleyharrop-213.jpg"},
		{ID: 5, Name: "Party Dress", Price: 179, Type: TypeParty, Sizes: []Size{SizeS, SizeM, SizeL, SizeXL}, Colour: "gold", Image: "fbdscoleyharrop-245.jpg"},
		{ID: 6, Name: "Prom Dress", Price: 349, Type: TypeProm, Sizes: []Size{SizeXS, SizeS, SizeM}, Colour: "blue", Image: "fbdscoleyharrop-253.jpg"},
	}
}
