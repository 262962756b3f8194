package common

// Key codes delivered by the window's key callbacks.
// They match GLFW key codes, which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87 // camera forward
	KeyA     = 65 // camera left
	KeyS     = 83 // camera back
	KeyD     = 68 // camera right
	KeyQ     = 81 // camera down
	KeyE     = 69 // camera up
	KeyI     = 73 // orbit up
	KeyJ     = 74 // orbit left
	KeyK     = 75 // orbit down
	KeyL     = 76 // orbit right
	KeyR     = 82 // reseed the scene
	KeyP     = 80 // toggle progressive sampling
	KeyEqual = 61 // light intensity up
	KeyMinus = 45 // light intensity down
	KeySpace = 32
	KeyEsc   = 256
)

// Arrow keys rotate the light.
const (
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265
)
