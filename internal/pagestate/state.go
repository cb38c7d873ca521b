package pagestate

// State is the classification of a page in the login and key enrollment workflow.
type State int

const (
	Unknown State = iota
	LoginPage
	HomePage
	DeviceVerificationPage
	SettingsKeysPage
	SettingsKeysPageWithError
)

var stateNames = map[State]string{
	Unknown:                   "Unknown",
	LoginPage:                 "LoginPage",
	HomePage:                  "HomePage",
	DeviceVerificationPage:    "DeviceVerificationPage",
	SettingsKeysPage:          "SettingsKeysPage",
	SettingsKeysPageWithError: "SettingsKeysPageWithError",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}
