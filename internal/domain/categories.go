package domain

// Category is one of the fixed topical tags partitioning the question bank.
type Category string

const (
	CategoryUniverse               Category = "universe"
	CategoryGeography              Category = "geography"
	CategoryWorldHistory           Category = "world-history"
	CategoryNepalHistory           Category = "nepal-history"
	CategoryCultureSociety         Category = "culture-society"
	CategoryEconomy                Category = "economy"
	CategoryHealthTechnology       Category = "health-technology"
	CategoryEcoSystem              Category = "eco-system"
	CategoryInternationalRelations Category = "international-relations"
)

// Categories is the canonical ordered enumeration. The order is part of the
// daily selection contract: iterating in any other order changes which
// questions a given date produces.
var Categories = []Category{
	CategoryUniverse,
	CategoryGeography,
	CategoryWorldHistory,
	CategoryNepalHistory,
	CategoryCultureSociety,
	CategoryEconomy,
	CategoryHealthTechnology,
	CategoryEcoSystem,
	CategoryInternationalRelations,
}

// categoryNames holds bilingual display names keyed by language code.
var categoryNames = map[string]map[Category]string{
	"en": {
		CategoryUniverse:               "Universe",
		CategoryGeography:              "Geography",
		CategoryWorldHistory:           "World History",
		CategoryNepalHistory:           "Nepal History",
		CategoryCultureSociety:         "Culture and Society",
		CategoryEconomy:                "Economy",
		CategoryHealthTechnology:       "Health and Technology",
		CategoryEcoSystem:              "Eco System",
		CategoryInternationalRelations: "International Relations",
	},
	"ne": {
		CategoryUniverse:               "ब्रह्माण्ड",
		CategoryGeography:              "भूगोल",
		CategoryWorldHistory:           "विश्व इतिहास",
		CategoryNepalHistory:           "नेपाल इतिहास",
		CategoryCultureSociety:         "संस्कृति र समाज",
		CategoryEconomy:                "अर्थतन्त्र",
		CategoryHealthTechnology:       "स्वास्थ्य र प्रविधि",
		CategoryEcoSystem:              "पारिस्थितिकी तन्त्र",
		CategoryInternationalRelations: "अन्तर्राष्ट्रिय सम्बन्ध",
	},
}

// DisplayName returns the category label in the given language ("en" or "ne").
// Unknown languages fall back to English; unknown categories return the raw tag.
func (c Category) DisplayName(language string) string {
	names, ok := categoryNames[language]
	if !ok {
		names = categoryNames["en"]
	}
	if name, ok := names[c]; ok {
		return name
	}
	return string(c)
}

// ValidCategory reports whether the tag belongs to the fixed enumeration.
func ValidCategory(tag string) bool {
	for _, c := range Categories {
		if string(c) == tag {
			return true
		}
	}
	return false
}
