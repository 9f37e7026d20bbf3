package enums

// ResellerStatus tracks the manual approval state of a reseller account.
type ResellerStatus string

const (
	ResellerStatusPending  ResellerStatus = "pending"
	ResellerStatusApproved ResellerStatus = "approved"
	ResellerStatusRejected ResellerStatus = "rejected"
)

func (s ResellerStatus) IsValid() bool {
	switch s {
	case ResellerStatusPending, ResellerStatusApproved, ResellerStatusRejected:
		return true
	}
	return false
}
