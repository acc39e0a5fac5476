package seed

type SeedMember struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Wilaya        string
	Baladiya      string
	Country       string
	FirstJoinYear int
	// LegacyPassword simulates a record carried over from the old
	// system; it is stored hashed, never verbatim.
	LegacyPassword   string
	SubscriptionType string
}

var Members = []SeedMember{
	{
		FirstName:        "أمين",
		LastName:         "بوقرة",
		Email:            "amine.bouguerra@example.com",
		Phone:            "+213550000001",
		Wilaya:           "الجزائر",
		Baladiya:         "باب الوادي",
		Country:          "الجزائر",
		FirstJoinYear:    2024,
		LegacyPassword:   "password123",
		SubscriptionType: "type_2",
	},
	{
		FirstName:        "سعاد",
		LastName:         "حمادي",
		Email:            "souad.hamadi@example.com",
		Phone:            "+213550000002",
		Wilaya:           "وهران",
		Baladiya:         "السانية",
		Country:          "الجزائر",
		FirstJoinYear:    2023,
		SubscriptionType: "type_1",
	},
	{
		FirstName:        "يوسف",
		LastName:         "مرابط",
		Email:            "youcef.merabet@example.com",
		Phone:            "+213550000003",
		Wilaya:           "قسنطينة",
		Baladiya:         "الخروب",
		Country:          "الجزائر",
		FirstJoinYear:    2024,
		SubscriptionType: "type_3",
	},
	{
		FirstName:        "ليلى",
		LastName:         "بن صالح",
		Email:            "leila.bensalah@example.com",
		Phone:            "+33650000004",
		Wilaya:           "باريس",
		Baladiya:         "",
		Country:          "فرنسا",
		FirstJoinYear:    2022,
		SubscriptionType: "type_4",
	},
	{
		FirstName:        "رشيد",
		LastName:         "زروقي",
		Email:            "rachid.zerrouki@example.com",
		Phone:            "+213550000005",
		Wilaya:           "تيزي وزو",
		Baladiya:         "عزازقة",
		Country:          "الجزائر",
		FirstJoinYear:    2024,
	},
}
