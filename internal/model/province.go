package model

// Provinces is the closed enumeration of Indonesian administrative regions a
// partner can be registered in.
var Provinces = []string{
	"Aceh",
	"Sumatera Utara",
	"Sumatera Barat",
	"Riau",
	"Kepulauan Riau",
	"Jambi",
	"Sumatera Selatan",
	"Kepulauan Bangka Belitung",
	"Bengkulu",
	"Lampung",
	"DKI Jakarta",
	"Banten",
	"Jawa Barat",
	"Jawa Tengah",
	"DI Yogyakarta",
	"Jawa Timur",
	"Bali",
	"Nusa Tenggara Barat",
	"Nusa Tenggara Timur",
	"Kalimantan Barat",
	"Kalimantan Tengah",
	"Kalimantan Selatan",
	"Kalimantan Timur",
	"Kalimantan Utara",
	"Sulawesi Utara",
	"Gorontalo",
	"Sulawesi Tengah",
	"Sulawesi Barat",
	"Sulawesi Selatan",
	"Sulawesi Tenggara",
	"Maluku",
	"Maluku Utara",
	"Papua",
	"Papua Barat",
}

// ValidProvince reports whether the name is in the enumeration.
func ValidProvince(name string) bool {
	for _, p := range Provinces {
		if p == name {
			return true
		}
	}
	return false
}
