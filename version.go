package vectorgov

// Version is the SDK release, reported in the User-Agent of every request.
const Version = "1.4.0"

const defaultUserAgent = "vectorgov-sdk-go/" + Version
