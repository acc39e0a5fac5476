package constants

type SubscriptionType string

const (
	SubscriptionType1 SubscriptionType = "type_1"
	SubscriptionType2 SubscriptionType = "type_2"
	SubscriptionType3 SubscriptionType = "type_3"
	SubscriptionType4 SubscriptionType = "type_4"
)

// SubscriptionAmounts maps each subscription type to its annual dues in DZD.
var SubscriptionAmounts = map[SubscriptionType]int64{
	SubscriptionType1: 1000,
	SubscriptionType2: 3000,
	SubscriptionType3: 5000,
	SubscriptionType4: 10000,
}

func IsValidSubscriptionType(t string) bool {
	_, ok := SubscriptionAmounts[SubscriptionType(t)]
	return ok
}

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusInactive  MemberStatus = "inactive"
	MemberStatusSuspended MemberStatus = "suspended"
)

func IsValidMemberStatus(s string) bool {
	switch MemberStatus(s) {
	case MemberStatusActive, MemberStatusInactive, MemberStatusSuspended:
		return true
	default:
		return false
	}
}

type DocumentType string

const (
	DocumentTypeNationalID    DocumentType = "national_id"
	DocumentTypePassport      DocumentType = "passport"
	DocumentTypeElectoralCard DocumentType = "electoral_card"
)

func IsValidDocumentType(t string) bool {
	switch DocumentType(t) {
	case DocumentTypeNationalID, DocumentTypePassport, DocumentTypeElectoralCard:
		return true
	default:
		return false
	}
}
