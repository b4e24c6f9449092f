package services

// Services defined in this package:
// - CollegeService: list, save and delete colleges
// - ProgramService: list, save and delete programs, college choices
// - StudentService: list, save and delete students, program choices
// - OverviewService: record counts for the index page
// - UserService: administrative accounts
//
// Every write runs in one transaction opened by the service; repositories
// receive the transaction explicitly.
