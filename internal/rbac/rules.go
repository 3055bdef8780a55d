package rbac

const (
	PermBlueprintAuthor = "blueprint:author"
	PermBlueprintView   = "blueprint:view"
	PermMarksCompute    = "marks:compute"
	PermMarksView       = "marks:view"
	PermAuditView       = "audit:view"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	"student": {
		PermBlueprintView,
	},
	"teacher": {
		"blueprint:*",
		"marks:*",
	},
	"admin": {
		"*", // everything
	},
}
