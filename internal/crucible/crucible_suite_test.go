package crucible_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCrucible(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Crucible Suite")
}
