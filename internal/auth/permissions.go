package auth

// Permission constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions.
const (
	// PermManageUsers allows managing member accounts.
	PermManageUsers = "manage_users"
	// PermManageRoles allows managing roles and their permissions.
	PermManageRoles = "manage_roles"
	// PermManageInventory allows managing stock and equipment assignments.
	PermManageInventory = "manage_inventory"
	// PermManageActivities allows creating and editing activities.
	PermManageActivities = "manage_activities"
	// PermViewReports allows viewing evaluation and attendance reports.
	PermViewReports = "view_reports"
	// PermManageCommunications allows managing announcements to members.
	PermManageCommunications = "manage_communications"
	// PermManageAttendance allows correcting and reviewing attendance rows.
	PermManageAttendance = "manage_attendance"
	// PermScanQRCodes allows scanning activity entry/exit QR codes.
	PermScanQRCodes = "scan_qr_codes"
	// PermViewChildAttendance allows parents to view their children's attendance.
	PermViewChildAttendance = "view_child_attendance"
	// PermViewChildEquipment allows parents to view equipment assigned to their children.
	PermViewChildEquipment = "view_child_equipment"
	// PermViewChildProgression allows parents to view their children's progression.
	PermViewChildProgression = "view_child_progression"
	// PermViewActivities allows viewing the activity calendar.
	PermViewActivities = "view_activities"
)

// DefaultPermissions maps every built-in permission name to its description.
// The startup seeder inserts any of these that are missing.
var DefaultPermissions = map[string]string{
	PermManageUsers:          "Gérer les utilisateurs",
	PermManageRoles:          "Gérer les rôles et permissions",
	PermManageInventory:      "Gérer les stocks",
	PermManageActivities:     "Gérer les activités",
	PermViewReports:          "Voir les rapports",
	PermManageCommunications: "Gérer les communications",
	PermManageAttendance:     "Gérer les présences",
	PermScanQRCodes:          "Scanner les QR codes de présence",
	PermViewChildAttendance:  "Voir les présences des enfants",
	PermViewChildEquipment:   "Voir les équipements des enfants",
	PermViewChildProgression: "Voir la progression des enfants",
	PermViewActivities:       "Voir les activités",
}

// DefaultRolePermissions maps every built-in role to its permission names.
// Used by the startup seeder; roles created later start empty.
var DefaultRolePermissions = map[string][]string{
	"admin": {
		PermManageUsers, PermManageRoles, PermManageInventory,
		PermManageActivities, PermViewReports, PermManageCommunications,
		PermManageAttendance,
	},
	"animateur": {
		PermManageActivities, PermViewReports, PermManageAttendance,
	},
	"parent": {
		PermViewChildAttendance, PermViewChildEquipment,
		PermViewChildProgression, PermViewActivities, PermManageCommunications,
	},
	"cadet": {
		PermScanQRCodes, PermViewActivities,
	},
	"AMC": {
		PermScanQRCodes, PermViewActivities,
	},
}

// DefaultRoleDescriptions maps every built-in role to its description.
var DefaultRoleDescriptions = map[string]string{
	"admin":     "Administrateur système",
	"animateur": "Animateur standard",
	"parent":    "Parent",
	"cadet":     "Cadet",
	"AMC":       "Aide-Moniteur Cadet",
}
