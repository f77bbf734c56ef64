package internal

// Version is the estflash release version
const Version = "0.3.0"
