// Package main provides the entry point for the cadet unit management
// application. It runs a server-rendered web application (Fiber) covering
// members, QR-code attendance, activities, inventory and equipment
// assignment, evaluations with points/levels/badges, and role-based access
// control. Data is persisted with gorm on PostgreSQL, MySQL or SQLite.
package main
