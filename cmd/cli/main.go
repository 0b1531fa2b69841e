package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "item":
		handleItem(args)
	case "sale":
		handleSale(args)
	case "report":
		handleReport(args)
	case "admin":
		handleAdmin(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: dukapos auth <register|login|logout|who>")
		return
	}

	switch args[0] {
	case "register":
		registerUser(args[1:])
	case "login":
		loginUser(args[1:])
	case "logout":
		logoutUser()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func handleItem(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: dukapos item <list|add|restock|delete|low-stock>")
		return
	}

	switch args[0] {
	case "list":
		listItems()
	case "add":
		addItem(args[1:])
	case "restock":
		restockItem(args[1:])
	case "delete":
		deleteItem(args[1:])
	case "low-stock":
		lowStock(args[1:])
	default:
		fmt.Printf("unknown item command: %s\n", args[0])
	}
}

func handleSale(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: dukapos sale <record|list>")
		return
	}

	switch args[0] {
	case "record":
		recordSale(args[1:])
	case "list":
		listSales(args[1:])
	default:
		fmt.Printf("unknown sale command: %s\n", args[0])
	}
}

func handleReport(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: dukapos report <summary|detailed>")
		return
	}

	switch args[0] {
	case "summary":
		reportSummary(args[1:])
	case "detailed":
		reportDetailed(args[1:])
	default:
		fmt.Printf("unknown report command: %s\n", args[0])
	}
}

func handleAdmin(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: dukapos admin <reset|settings>")
		return
	}

	switch args[0] {
	case "reset":
		factoryReset(args[1:])
	case "settings":
		showSettings()
	default:
		fmt.Printf("unknown admin command: %s\n", args[0])
	}
}

// Auth commands
func registerUser(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	role := fs.String("role", "user", "role (user or admin)")

	fs.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("Error: username and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"username": *username,
		"password": *password,
		"role":     *role,
	}

	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/register", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ User registered: %s\n", *username)
	} else {
		fmt.Printf("✗ Registration failed: %v\n", result)
	}
}

func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("Error: username and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"username": *username, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/login", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		if token, ok := result["token"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Logged in as: %s\n", *username)
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result)
	}
}

func logoutUser() {
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	token := loadToken()
	if len(token) < 20 {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("✓ Logged in (token: %s...)\n", token[:20])
}

// Item commands
func listItems() {
	var items []map[string]interface{}
	if !getJSON("/items", &items) {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQUANTITY\tPRICE")
	for _, it := range items {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", it["id"], it["name"], it["quantity"], it["price"])
	}
	w.Flush()
}

func addItem(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "item name")
	quantity := fs.Int("quantity", 0, "initial stock")
	price := fs.Float64("price", 0, "unit price")

	fs.Parse(args)

	if *name == "" || *price <= 0 {
		fmt.Println("Error: name and a positive price are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{"name": *name, "quantity": *quantity, "price": *price}
	var result map[string]interface{}
	if postJSON("/items", payload, &result) {
		fmt.Printf("✓ Item added: %v (id %v)\n", result["name"], result["id"])
	}
}

func restockItem(args []string) {
	fs := flag.NewFlagSet("restock", flag.ExitOnError)
	id := fs.String("id", "", "item id")
	quantity := fs.Int("quantity", 0, "quantity to add")

	fs.Parse(args)

	if *id == "" || *quantity <= 0 {
		fmt.Println("Error: id and a positive quantity are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{"quantity": *quantity}
	var result map[string]interface{}
	if postJSON("/items/"+*id+"/restock", payload, &result) {
		fmt.Printf("✓ Item %s restocked\n", *id)
	}
}

func deleteItem(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: dukapos item delete <item-id>")
		return
	}

	req, _ := http.NewRequest("DELETE", getAPIURL()+"/items/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		fmt.Printf("✓ Item %s deleted\n", args[0])
	} else {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Delete failed: %v\n", result)
	}
}

func lowStock(args []string) {
	fs := flag.NewFlagSet("low-stock", flag.ExitOnError)
	threshold := fs.String("threshold", "", "low-stock threshold (default from settings)")

	fs.Parse(args)

	path := "/items/low-stock"
	if *threshold != "" {
		path += "?threshold=" + *threshold
	}

	var items []map[string]interface{}
	if !getJSON(path, &items) {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQUANTITY")
	for _, it := range items {
		fmt.Fprintf(w, "%v\t%v\t%v\n", it["id"], it["name"], it["quantity"])
	}
	w.Flush()
}

// Sale commands
func recordSale(args []string) {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	itemID := fs.Int64("item", 0, "item id")
	quantity := fs.Int("quantity", 0, "quantity sold")

	fs.Parse(args)

	if *itemID <= 0 || *quantity <= 0 {
		fmt.Println("Error: a valid item id and positive quantity are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{"itemId": *itemID, "quantity": *quantity}
	var result map[string]interface{}
	if postJSON("/sales", payload, &result) {
		fmt.Printf("✓ Sale recorded: %v x item %v, amount %v\n",
			result["quantity"], result["itemId"], result["amount"])
	}
}

func listSales(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.String("limit", "", "max sales to list")

	fs.Parse(args)

	path := "/sales"
	if *limit != "" {
		path += "?limit=" + *limit
	}

	var sales []map[string]interface{}
	if !getJSON(path, &sales) {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tQUANTITY\tAMOUNT\tDATE")
	for _, s := range sales {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", s["id"], s["itemName"], s["quantity"], s["amount"], s["date"])
	}
	w.Flush()
}

// Report commands
func reportSummary(args []string) {
	var result map[string]interface{}
	if !getJSON("/reports/summary?"+rangeQuery(args), &result) {
		return
	}

	fmt.Printf("Sales:   %v\n", result["totalSales"])
	fmt.Printf("Revenue: %v %v\n", result["totalRevenue"], result["currency"])
	fmt.Printf("Average: %v %v\n", result["averageSale"], result["currency"])
}

func reportDetailed(args []string) {
	var rows []map[string]interface{}
	if !getJSON("/reports/detailed?"+rangeQuery(args), &rows) {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tQUANTITY\tAMOUNT")
	for _, row := range rows {
		fmt.Fprintf(w, "%v\t%v\t%v\n", row["itemName"], row["quantitySold"], row["totalAmount"])
	}
	w.Flush()
}

func rangeQuery(args []string) string {
	fs := flag.NewFlagSet("range", flag.ExitOnError)
	period := fs.String("period", "", "today, week or month")
	start := fs.String("start", "", "start date (YYYY-MM-DD)")
	end := fs.String("end", "", "end date (YYYY-MM-DD)")

	fs.Parse(args)

	if *period != "" {
		return "period=" + *period
	}
	if *start != "" && *end != "" {
		return "start=" + *start + "&end=" + *end
	}
	return "period=today"
}

// Admin commands
func factoryReset(args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	confirm := fs.Bool("yes", false, "confirm the irreversible reset")

	fs.Parse(args)

	if !*confirm {
		fmt.Println("Factory reset deletes ALL items and sales. Re-run with -yes to confirm.")
		return
	}

	var result map[string]interface{}
	if postJSON("/admin/reset", map[string]interface{}{}, &result) {
		fmt.Println("✓ Factory reset completed")
	}
}

func showSettings() {
	var result map[string]interface{}
	if !getJSON("/settings", &result) {
		return
	}

	for k, v := range result {
		fmt.Printf("%s: %v\n", k, v)
	}
}

// Helper functions
func getJSON(path string, out interface{}) bool {
	req, _ := http.NewRequest("GET", getAPIURL()+path, nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Request failed: %v\n", result)
		return false
	}

	json.NewDecoder(resp.Body).Decode(out)
	return true
}

func postJSON(path string, payload interface{}, out interface{}) bool {
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Request failed: %v\n", result)
		return false
	}

	json.NewDecoder(resp.Body).Decode(out)
	return true
}

func getAPIURL() string {
	if url := os.Getenv("DUKAPOS_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.dukapos/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.dukapos", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	if token := loadToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Println(`dukapos - point of sale CLI

Usage:
  dukapos auth <register|login|logout|who>
  dukapos item <list|add|restock|delete|low-stock>
  dukapos sale <record|list>
  dukapos report <summary|detailed>
  dukapos admin <reset|settings>

Environment:
  DUKAPOS_API   API base URL (default http://localhost:8080/api)`)
}
