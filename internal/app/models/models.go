package models

// Role identifies what kind of session a requester holds
type Role string

const (
	RoleUser  Role = "user"  // self-registered account
	RoleAdmin Role = "admin" // configured administrator
)

// PaperTypes lists the accepted paper types in display order
var PaperTypes = []PaperType{PaperTypeRegular, PaperTypeArrear}
