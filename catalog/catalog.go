package catalog

// Process-wide static configuration: the device store catalog and the task
// templates every user is seeded with. Read-only at runtime.

type DeviceTemplate struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	SatPerCycle int     `json:"sat_per_cycle"`
	Interval    int     `json:"interval"` // seconds per cycle
}

var Devices = []DeviceTemplate{
	{ID: 1, Name: "Antminer S19", Price: 0.00000012, SatPerCycle: 6, Interval: 30},
	{ID: 2, Name: "Antminer S19J", Price: 0.00000050, SatPerCycle: 8, Interval: 26},
	{ID: 3, Name: "Antminer S19 Pro", Price: 0.00001000, SatPerCycle: 13, Interval: 22},
	{ID: 4, Name: "Antminer S19J Pro", Price: 0.00009000, SatPerCycle: 15, Interval: 19},
	{ID: 5, Name: "Antminer S21", Price: 0.00050000, SatPerCycle: 20, Interval: 15},
	{ID: 6, Name: "Antminer S21 Pro", Price: 0.00090000, SatPerCycle: 26, Interval: 11},
	{ID: 7, Name: "Antminer S23 Hydro", Price: 0.00100000, SatPerCycle: 30, Interval: 8},
	{ID: 8, Name: "Antminer S23 Pro Hydro", Price: 0.05000000, SatPerCycle: 40, Interval: 4},
}

// FindDevice returns the catalog entry for id, or nil when no such entry exists.
func FindDevice(id int) *DeviceTemplate {
	for i := range Devices {
		if Devices[i].ID == id {
			return &Devices[i]
		}
	}
	return nil
}

const (
	RewardCurrency   = "currency"
	RewardExperience = "experience"
)

type TaskTemplate struct {
	Title      string
	Reward     float64
	RewardType string
	Condition  string
	Daily      bool
}

var Tasks = []TaskTemplate{
	{Title: "First login", Reward: 0.00000006, RewardType: RewardCurrency, Condition: "first_login"},
	{Title: "Buy three devices", Reward: 0.00000020, RewardType: RewardCurrency, Condition: "buy_3_items"},
	{Title: "Buy five devices", Reward: 0.00000100, RewardType: RewardCurrency, Condition: "buy_5_items"},
	{Title: "Buy ten devices", Reward: 0.00000175, RewardType: RewardCurrency, Condition: "buy_10_items"},
	{Title: "Buy twenty devices", Reward: 0.00000250, RewardType: RewardCurrency, Condition: "buy_20_items"},
	{Title: "Buy thirty devices", Reward: 0.00000325, RewardType: RewardCurrency, Condition: "buy_30_items"},
	{Title: "Buy fifty devices", Reward: 0.00000500, RewardType: RewardCurrency, Condition: "buy_50_items"},
	{Title: "Buy one hundred devices", Reward: 0.00001000, RewardType: RewardCurrency, Condition: "buy_100_items"},
	{Title: "Log in every day for a week", Reward: 900, RewardType: RewardExperience, Condition: "login_7_days"},
	{Title: "Log in every day for a month", Reward: 5000, RewardType: RewardExperience, Condition: "login_30_days"},
}

// BuyThresholds are the device-ownership counts that have a matching
// buy_N_items task, in ascending order.
var BuyThresholds = []int{3, 5, 10, 20, 30, 50, 100}
