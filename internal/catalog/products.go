package catalog

// commonPowers — стандартная линейка диоптрий для очков для чтения.
var commonPowers = []string{
	"+0.75", "+1.00", "+1.25", "+1.50", "+1.75", "+2.00", "+2.25",
	"+2.50", "+2.75", "+3.00", "+3.25", "+3.50",
	"Don't know power",
}

// rimlessPowers дополнительно включает вариант без диоптрий.
var rimlessPowers = append([]string{"Blue Cut Zero"}, commonPowers...)

var products = []Product{
	{
		ID:       "1515",
		Name:     "Diamond Cut Anti BLU Reading",
		Slug:     "diamond-cut-anti-blu-reading-1515",
		Price:    350,
		Category: "Reading Glasses",
		Description: "Pay cash on delivery. Single vision Power. " +
			"7-day return/Exchange. Whole Bangladesh Delivery.",
		Image:           "/images/products/bold-black.jpg",
		AvailableColors: []string{"Black", "Brown"},
		AvailablePowers: commonPowers,
	},
	{
		ID:       "V004",
		Name:     "Luxury Rimless Anti Blue – V004",
		Slug:     "luxury-rimless-anti-blue-v004",
		Price:    1190,
		Category: "Reading Glasses",
		Description: "Power and Non Power options. Premium Quality. " +
			"Anti UV, Anti Radiation. Whole Bangladesh Home Delivery.",
		Image:           "/images/products/rimless-silver.jpg",
		AvailableColors: []string{"Golden", "Silver"},
		AvailablePowers: rimlessPowers,
	},
	{
		ID:            "V007",
		Name:          "Luxury Rimless Anti Blue – V007",
		Slug:          "luxury-rimless-anti-blue-v007",
		Price:         1100,
		OriginalPrice: 1900,
		Discount:      "৳800 off (42% discount)",
		IsOnSale:      true,
		Category:      "Reading Glasses",
		Description: "Luxury Rimless Anti Blue Glasses. Premium Quality. " +
			"Scratch Free and Anti UV, Anti Radiation.",
		Image:           "/images/products/executive.jpg",
		AvailableColors: []string{"Gold/Black", "Shining Silver/Black"},
		AvailablePowers: rimlessPowers,
	},
	{
		ID:       "V001",
		Name:     "Premium Anti Blue Reading – V001",
		Slug:     "premium-anti-blue-reading-v001",
		Price:    990,
		Category: "Reading Glasses",
		Description: "Power and Non Power options. Premium Quality. " +
			"Anti UV, Anti Radiation. Whole Bangladesh Home Delivery.",
		Image:           "/images/products/ultra-blue.jpg",
		AvailableColors: []string{"Shining Gold", "Shining Silver"},
		AvailablePowers: commonPowers,
	},
}
