package seed

import "vetclinic/m/domain"

// CatalogItems returns the static starting catalog: vaccines, medications
// and supplies start at 50 units, pet foods at 30.
func CatalogItems() []domain.InventoryItem {
	return []domain.InventoryItem{
		{Name: "Rabies Vaccine (1 dose)", Price: 350.00, Stock: medicineStock, Category: "Dog Medicines", Brand: "Generic", AnimalType: "Dog", Dosage: "1ml", Expiration: "2 years"},
		{Name: "DHPP Vaccine (1 dose)", Price: 450.00, Stock: medicineStock, Category: "Dog Medicines", Brand: "Generic", AnimalType: "Dog", Dosage: "1ml", Expiration: "1 year"},
		{Name: "Amoxicillin 500mg (tablet)", Price: 25.00, Stock: medicineStock, Category: "Dog Medicines", Brand: "Generic", AnimalType: "Dog", Dosage: "1 tablet", Expiration: "2 years"},
		{Name: "Carprofen 100mg (tablet)", Price: 35.00, Stock: medicineStock, Category: "Dog Medicines", Brand: "Generic", AnimalType: "Dog", Dosage: "1 tablet", Expiration: "2 years"},
		{Name: "Sterile Bandage 5cm x 5m", Price: 150.00, Stock: medicineStock, Category: "Dog Medicines", Brand: "Generic", AnimalType: "All", Dosage: "N/A", Expiration: "5 years"},
		{Name: "FVR Vaccine (1 dose)", Price: 400.00, Stock: medicineStock, Category: "Cat Medicines", Brand: "Generic", AnimalType: "Cat", Dosage: "1ml", Expiration: "1 year"},
		{Name: "Clindamycin 75mg (capsule)", Price: 30.00, Stock: medicineStock, Category: "Cat Medicines", Brand: "Generic", AnimalType: "Cat", Dosage: "1 capsule", Expiration: "2 years"},
		{Name: "Premium Dog Dry Food 5kg", Price: 850.00, Stock: foodStock, Category: "Pet Food", Brand: "Premium", AnimalType: "Dog", Dosage: "N/A", Expiration: "2 years"},
		{Name: "Puppy Dry Food 3kg", Price: 650.00, Stock: foodStock, Category: "Pet Food", Brand: "Premium", AnimalType: "Dog", Dosage: "N/A", Expiration: "2 years"},
		{Name: "Dog Wet Food Cans (12 pack)", Price: 480.00, Stock: foodStock, Category: "Pet Food", Brand: "Premium", AnimalType: "Dog", Dosage: "N/A", Expiration: "1 year"},
		{Name: "Adult Cat Dry Food 2kg", Price: 550.00, Stock: foodStock, Category: "Pet Food", Brand: "Premium", AnimalType: "Cat", Dosage: "N/A", Expiration: "2 years"},
		{Name: "Cat Wet Food Pouches (12 pack)", Price: 420.00, Stock: foodStock, Category: "Pet Food", Brand: "Premium", AnimalType: "Cat", Dosage: "N/A", Expiration: "1 year"},
	}
}

// ServicePrices lists the billable appointment services and their rates.
func ServicePrices() map[string]float64 {
	return map[string]float64{
		"Consultation":    500.00,
		"Vaccination":     800.00,
		"Surgery":         2500.00,
		"Grooming":        600.00,
		"Checkup":         400.00,
		"Dental Cleaning": 1200.00,
		"X-Ray":           1500.00,
		"Blood Test":      800.00,
		"Emergency Care":  2000.00,
		"Vaccine Booster": 600.00,
		"Spay/Neuter":     3000.00,
		"Microchipping":   800.00,
	}
}
