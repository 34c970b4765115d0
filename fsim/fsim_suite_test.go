package fsim

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFsim(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fsim Suite")
}
