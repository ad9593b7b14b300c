package domain

const (
	FundTithe        = "tithe"
	FundOffering     = "offering"
	FundMissions     = "missions"
	FundBuildingFund = "building-fund"
)

const (
	ChargeStatusPending   = "PENDING"
	ChargeStatusCompleted = "COMPLETED"
	ChargeStatusFailed    = "FAILED"
)

const (
	IntentStatusActive     = "ACTIVE"
	IntentStatusSuperseded = "SUPERSEDED"
	IntentStatusConsumed   = "CONSUMED"
)

var FundDescriptions = map[string]string{
	FundTithe:        "Supports the ongoing ministry and operations.",
	FundOffering:     "Helps fund weekly services and community care.",
	FundMissions:     "Advances outreach and missionary support.",
	FundBuildingFund: "Invests in facilities, equipment, and upgrades.",
}

func ValidFund(fund string) bool {
	_, ok := FundDescriptions[fund]
	return ok
}
