package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, "'plain'", XPathLiteral("plain"))
	assert.Equal(t, `"it's"`, XPathLiteral("it's"))
	assert.Equal(t, `concat('a"b', "'", 'c')`, XPathLiteral(`a"b'c`))
}

func TestSelectorFill(t *testing.T) {
	x := XPath("//li[contains(.,{text})]").Fill("尹传清(18566227407)")
	assert.Equal(t, "//li[contains(.,'尹传清(18566227407)')]", x.Value)

	c := CSS("input[placeholder*='{text}']").Fill("账号")
	assert.Equal(t, "input[placeholder*='账号']", c.Value)

	static := CSS(".el-dialog")
	assert.Equal(t, static, static.Fill("ignored"))
}

func TestRunSummary(t *testing.T) {
	var s RunSummary
	s.Record(true)
	s.Record(false)
	s.Record(true)

	assert.Equal(t, 3, s.Attempted)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed())
	assert.InDelta(t, 66.67, s.SuccessRate(), 0.01)
	assert.Zero(t, RunSummary{}.SuccessRate())
}

func TestIsLoginView(t *testing.T) {
	assert.True(t, IsLoginView("https://dms.kaadas.com/#/Login", "login"))
	assert.False(t, IsLoginView("https://dms.kaadas.com/#/deviceList/detail", "login"))
}
