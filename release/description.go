package release

import "strings"

const (
	DescriptionInstallationPackage = "Installation package"
	DescriptionUpdate              = "Update/Patch file"
	DescriptionWindowsExecutable   = "Windows executable"
	DescriptionWindowsInstaller    = "Windows installer package"
	DescriptionArchive             = "Compressed archive"
	DescriptionDefault             = "Installer file"
)

type descriptionRule struct {
	needles     []string
	description string
}

// order matters, the first matching rule wins
var descriptionRules = []descriptionRule{
	{needles: []string{"setup", "installer"}, description: DescriptionInstallationPackage},
	{needles: []string{"update", "patch"}, description: DescriptionUpdate},
	{needles: []string{".exe"}, description: DescriptionWindowsExecutable},
	{needles: []string{".msi"}, description: DescriptionWindowsInstaller},
	{needles: []string{".zip", ".tar", ".gz"}, description: DescriptionArchive},
}

// Describe classifies a filename into one of the fixed artifact descriptions.
func Describe(filename string) string {
	lower := strings.ToLower(filename)

	for _, rule := range descriptionRules {
		for _, needle := range rule.needles {
			if strings.Contains(lower, needle) {
				return rule.description
			}
		}
	}

	return DescriptionDefault
}
