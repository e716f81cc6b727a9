package account

// Weapon is an entry of the arsenal shop.
type Weapon struct {
	Name  string
	Price int
}

var arsenal = []Weapon{
	{Name: "AK-47", Price: 500},
	{Name: "M4A1", Price: 1000},
	{Name: "AWP", Price: 1500},
	{Name: "Desert Eagle", Price: 2000},
	{Name: "MP5", Price: 2500},
	{Name: "Shotgun", Price: 3000},
}

// adminLoadout is granted to the configured admin account.
var adminLoadout = []string{"AK-47", "M4A1", "AWP", "Desert Eagle"}

// Arsenal returns the shop listing in display order.
func Arsenal() []Weapon {
	out := make([]Weapon, len(arsenal))
	copy(out, arsenal)
	return out
}
