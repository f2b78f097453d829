package constants

const (
	// ContextKeyPrincipal holds the authenticated *models.User set by RequireAuth.
	ContextKeyPrincipal = "principal"
	// ContextKeyUserID holds the authenticated user's ID.
	ContextKeyUserID = "user_id"

	MinPasswordLength = 6

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	RecentTasksLimit    = 10
	MaxAIGeneratedTasks = 20

	AvatarFolder    = "users"
	AvatarFormField = "profile_image"
)

// AllowedImageTypes lists the content types accepted for profile images.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}
