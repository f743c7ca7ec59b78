package services

// Services defined in this package:
// - QuestionPaperService: listing, add, update, delete and download of question papers
// - AuthService: account signup and login, admin login, session parsing
// - VisitorService: public listing visit log and dashboard aggregates
// - HealthService: database connectivity check
