package services

// Services defined in this package:
// - CourseService: Handles course CRUD and the filtered course report
