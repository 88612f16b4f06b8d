package launcher

var AwaitPidRecord = awaitPidRecord
