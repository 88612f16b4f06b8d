package control

var BackoffFor = backoffFor
