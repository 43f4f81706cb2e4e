package npu

import "github.com/tliron/commonlog"

var (
	log     = commonlog.GetLogger("npu253")
	mmioLog = commonlog.GetLogger("npu253.mmio")
	loadLog = commonlog.GetLogger("npu253.load")
)
