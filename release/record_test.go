package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewFileRecord_derivesMetadataFromName(t *testing.T) {
	assertion := assert.New(t)

	sut := NewFileRecord("app-setup-v1.4.exe", "win/app-setup-v1.4.exe", 2048, "https://raw.example/app-setup-v1.4.exe")

	assertion.Equal("app-setup-v1.4.exe", sut.Name)
	assertion.Equal("win/app-setup-v1.4.exe", sut.Path)
	assertion.Equal("1.4", sut.Version)
	assertion.Equal(DescriptionInstallationPackage, sut.Description)
	assertion.Equal("2.0 KB", sut.Size)
	assertion.Equal("https://raw.example/app-setup-v1.4.exe", sut.DownloadURL)
}

func Test_JoinPath_omitsEmptyPrefix(t *testing.T) {
	assertion := assert.New(t)

	assertion.Equal("a.exe", JoinPath("", "a.exe"))
	assertion.Equal("win/a.exe", JoinPath("win", "a.exe"))
	assertion.Equal("win/x64/a.exe", JoinPath("win/x64", "a.exe"))
}
