package model

import "time"

type PartyFinding struct {
	MergerParty   string `json:"merger_party"`
	Explanation   string `json:"explanation"`
	GoodsServices string `json:"goods_services_sold_in_Singapore"`
	BrandNames    string `json:"brand_names"`
}

type Research struct {
	ID          int64
	NewsItemID  int64
	Query       string
	RawResponse string
	Citations   []string
	Parties     []PartyFinding
	ModelUsed   string
	SearchModel string
	CreatedAt   time.Time
}
