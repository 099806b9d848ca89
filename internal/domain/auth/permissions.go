package auth

const (
	RoleEmployee    = "employee"
	RoleManager     = "manager"
	RoleHR          = "hr"
	RoleSystemAdmin = "admin"
)

const (
	PermReportsRead     = "reports.read"
	PermReportsExport   = "reports.export"
	PermReportsAdmin    = "reports.admin"
	PermBenchmarksRead  = "benchmarks.read"
	PermBenchmarksWrite = "benchmarks.write"
	PermIntegrityRead   = "integrity.read"
)

var DefaultPermissions = []string{
	PermReportsRead,
	PermReportsExport,
	PermReportsAdmin,
	PermBenchmarksRead,
	PermBenchmarksWrite,
	PermIntegrityRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermBenchmarksRead,
	},
	RoleManager: {
		PermReportsRead,
		PermBenchmarksRead,
	},
	RoleHR: {
		PermReportsRead,
		PermReportsExport,
		PermBenchmarksRead,
		PermBenchmarksWrite,
		PermIntegrityRead,
	},
	RoleSystemAdmin: {
		PermReportsRead,
		PermReportsExport,
		PermReportsAdmin,
		PermBenchmarksRead,
		PermBenchmarksWrite,
		PermIntegrityRead,
	},
}
