package pyenv

// Requirement is a pip package the UI-testing environment needs, with the
// module name it imports as (they differ for pillow and opencv).
type Requirement struct {
	Package string
	Module  string
	Min     string
}

// Pin returns the requirements.txt line for this package.
func (r Requirement) Pin() string {
	return r.Package + ">=" + r.Min
}

// Requirements is the Python toolchain for Android UI testing.
var Requirements = []Requirement{
	{Package: "uiautomator2", Module: "uiautomator2", Min: "2.16.0"},
	{Package: "adbutils", Module: "adbutils", Min: "0.10.0"},
	{Package: "weditor", Module: "weditor", Min: "0.6.0"}, // UI inspector
	{Package: "pillow", Module: "PIL", Min: "8.0.0"},
	{Package: "opencv-python", Module: "cv2", Min: "4.5.0"},
	{Package: "requests", Module: "requests", Min: "2.25.0"},
	{Package: "pytest", Module: "pytest", Min: "7.0.0"},
	{Package: "allure-pytest", Module: "allure_pytest", Min: "2.9.0"},
}
