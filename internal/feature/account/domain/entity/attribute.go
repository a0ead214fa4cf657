package entity

// Attribute names an account attribute that can be used for lookups.
type Attribute string

const (
	AttributeAccountID Attribute = "id"
	AttributeLoginID   Attribute = "login_id"
	AttributeNickname  Attribute = "nickname"
	AttributeEmail     Attribute = "email"
	AttributePhone     Attribute = "phone"
)

// UniquenessOrder is the fixed order in which duplicate attributes are checked and reported.
var UniquenessOrder = []Attribute{
	AttributeLoginID,
	AttributeNickname,
	AttributeEmail,
	AttributePhone,
}

// Column returns the database column for the attribute.
func (a Attribute) Column() (string, bool) {
	switch a {
	case AttributeAccountID, AttributeLoginID, AttributeNickname, AttributeEmail, AttributePhone:
		return string(a), true
	default:
		return "", false
	}
}

// IsUnique reports whether the attribute is one of the unique public attributes.
func (a Attribute) IsUnique() bool {
	for _, u := range UniquenessOrder {
		if u == a {
			return true
		}
	}
	return false
}

// Label returns a human-readable name used in result messages.
func (a Attribute) Label() string {
	switch a {
	case AttributeLoginID:
		return "ID"
	case AttributeNickname:
		return "nickname"
	case AttributeEmail:
		return "email"
	case AttributePhone:
		return "phone number"
	case AttributeAccountID:
		return "account"
	default:
		return "value"
	}
}
