package entity

import (
	"tourdesk/internal/form"
	"tourdesk/internal/model"
)

var Customers = define(Definition{
	Name:     "customers",
	Title:    "Customers",
	Singular: "customer",
	Resource: "/customers",
	Fields: []model.FieldDescriptor{
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
		{Key: "city", Label: "City"},
		{Key: "address", Label: "Address"},
		{Key: "notes", Label: "Notes"},
		{Key: "createdAt", Label: "Created", Kind: model.KindDateTime},
	},
	List: listviewConfig("name", "email", "phone", "city"),
	Form: form.Spec{
		Fields: []form.FieldSpec{
			{Key: "name", Label: "Name", Required: true},
			{Key: "email", Label: "Email", Input: form.InputEmail},
			{Key: "phone", Label: "Phone"},
			{Key: "city", Label: "City"},
			{Key: "address", Label: "Address", Input: form.InputTextarea},
			{Key: "notes", Label: "Notes", Input: form.InputTextarea},
		},
	},
	CardTitle: "name",
	CardMeta: []model.FieldDescriptor{
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
		{Key: "city", Label: "City"},
	},
	Columns: []model.FieldDescriptor{
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
		{Key: "city", Label: "City"},
	},
}, []sortDef{
	{"name", "Name", "name", model.KindText},
	{"createdAt", "Created", "createdAt", model.KindDateTime},
})

var packageStatuses = []string{"enquiry", "confirmed", "ongoing", "completed", "cancelled"}

var Packages = define(Definition{
	Name:     "packages",
	Title:    "Packages",
	Singular: "package",
	Resource: "/packages",
	Fields: []model.FieldDescriptor{
		{Key: "packageName", Label: "Package"},
		{Key: "customer.name", Label: "Customer"},
		{Key: "customer.phone", Label: "Customer phone"},
		{Key: "destination.name", Label: "Destination"},
		{Key: "hotel.hotelName", Label: "Hotel"},
		{Key: "startDate", Label: "Start", Kind: model.KindDate},
		{Key: "endDate", Label: "End", Kind: model.KindDate},
		{Key: "adults", Label: "Adults", Kind: model.KindNumber},
		{Key: "children", Label: "Children", Kind: model.KindNumber},
		{Key: "totalAmount", Label: "Total amount", Kind: model.KindCurrency},
		{Key: "amountPaid", Label: "Amount paid", Kind: model.KindCurrency},
		{Key: "balance", Label: "Balance", Kind: model.KindCurrency},
		{Key: "status", Label: "Status"},
		{Key: "inclusions", Label: "Inclusions", Kind: model.KindObject},
	},
	List: listviewConfig("packageName", "customer.name", "destination.name", "status"),
	Form: form.Spec{
		Fields: []form.FieldSpec{
			{Key: "packageName", Label: "Package name", Required: true},
			{Key: "customer", Label: "Customer", Input: form.InputSelect, Relation: true, Source: "customers", Required: true},
			{Key: "destination", Label: "Destination", Input: form.InputSelect, Relation: true, Source: "destinations"},
			{Key: "hotel", Label: "Hotel", Input: form.InputSelect, Relation: true, Source: "hotels"},
			{Key: "startDate", Label: "Start date", Input: form.InputDate, Required: true},
			{Key: "endDate", Label: "End date", Input: form.InputDate},
			{Key: "adults", Label: "Adults", Input: form.InputNumber, Min: form.Min(1)},
			{Key: "children", Label: "Children", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "totalAmount", Label: "Total amount", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "amountPaid", Label: "Amount paid", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "status", Label: "Status", Input: form.InputSelect, Choices: packageStatuses},
		},
		Defaults: func() model.Record {
			return model.Record{"adults": 1.0, "children": 0.0, "status": "enquiry"}
		},
		Totals: PackageTotals,
		Dependents: map[string][]string{
			"destination": {"hotel"},
		},
	},
	CardTitle: "packageName",
	CardMeta: []model.FieldDescriptor{
		{Key: "customer.name", Label: "Customer"},
		{Key: "destination.name", Label: "Destination"},
		{Key: "startDate", Label: "Start", Kind: model.KindDate},
		{Key: "totalAmount", Label: "Total", Kind: model.KindCurrency},
		{Key: "status", Label: "Status"},
	},
	Columns: []model.FieldDescriptor{
		{Key: "packageName", Label: "Package"},
		{Key: "customer.name", Label: "Customer"},
		{Key: "destination.name", Label: "Destination"},
		{Key: "startDate", Label: "Start", Kind: model.KindDate},
		{Key: "totalAmount", Label: "Total", Kind: model.KindCurrency},
		{Key: "balance", Label: "Balance", Kind: model.KindCurrency},
		{Key: "status", Label: "Status"},
	},
}, []sortDef{
	{"startDate", "Start date", "startDate", model.KindDate},
	{"totalAmount", "Total amount", "totalAmount", model.KindCurrency},
	{"customer", "Customer", "customer.name", model.KindText},
	{"packageName", "Package name", "packageName", model.KindText},
})

var expenseCategories = []string{"hotel", "transport", "food", "guide", "misc"}

var Expenses = define(Definition{
	Name:     "expenses",
	Title:    "Expenses",
	Singular: "expense",
	Resource: "/expenses",
	Fields: []model.FieldDescriptor{
		{Key: "package.packageName", Label: "Package"},
		{Key: "date", Label: "Date", Kind: model.KindDate},
		{Key: "category", Label: "Category"},
		{Key: "description", Label: "Description"},
		{Key: "hotelCost", Label: "Hotel", Kind: model.KindCurrency},
		{Key: "transportCost", Label: "Transport", Kind: model.KindCurrency},
		{Key: "foodCost", Label: "Food", Kind: model.KindCurrency},
		{Key: "guideCost", Label: "Guide", Kind: model.KindCurrency},
		{Key: "miscCost", Label: "Misc", Kind: model.KindCurrency},
		{Key: "total", Label: "Total", Kind: model.KindCurrency},
	},
	List: listviewConfig("package.packageName", "description", "category"),
	Form: form.Spec{
		Fields: []form.FieldSpec{
			{Key: "package", Label: "Package", Input: form.InputSelect, Relation: true, Source: "packages", Required: true},
			{Key: "date", Label: "Date", Input: form.InputDate, Required: true},
			{Key: "category", Label: "Category", Input: form.InputSelect, Choices: expenseCategories},
			{Key: "description", Label: "Description", Input: form.InputTextarea},
			{Key: "hotelCost", Label: "Hotel cost", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "transportCost", Label: "Transport cost", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "foodCost", Label: "Food cost", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "guideCost", Label: "Guide cost", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "miscCost", Label: "Misc cost", Input: form.InputNumber, Min: form.Min(0)},
		},
		Defaults: func() model.Record { return model.Record{"category": "misc"} },
		Totals:   ExpenseTotals,
	},
	CardTitle: "description",
	CardMeta: []model.FieldDescriptor{
		{Key: "package.packageName", Label: "Package"},
		{Key: "date", Label: "Date", Kind: model.KindDate},
		{Key: "category", Label: "Category"},
		{Key: "total", Label: "Total", Kind: model.KindCurrency},
	},
	Columns: []model.FieldDescriptor{
		{Key: "date", Label: "Date", Kind: model.KindDate},
		{Key: "package.packageName", Label: "Package"},
		{Key: "category", Label: "Category"},
		{Key: "description", Label: "Description"},
		{Key: "total", Label: "Total", Kind: model.KindCurrency},
	},
}, []sortDef{
	{"date", "Date", "date", model.KindDate},
	{"total", "Total", "total", model.KindCurrency},
	{"category", "Category", "category", model.KindText},
})

var HotelBookings = define(Definition{
	Name:     "hotel-bookings",
	Title:    "Hotel bookings",
	Singular: "hotel booking",
	Resource: "/hotel-bookings",
	Fields: []model.FieldDescriptor{
		{Key: "guestName", Label: "Guest"},
		{Key: "package.packageName", Label: "Package"},
		{Key: "destination.name", Label: "Destination"},
		{Key: "hotel.hotelName", Label: "Hotel"},
		{Key: "roomType", Label: "Room type"},
		{Key: "checkIn", Label: "Check-in", Kind: model.KindDate},
		{Key: "checkOut", Label: "Check-out", Kind: model.KindDate},
		{Key: "nights", Label: "Nights", Kind: model.KindNumber},
		{Key: "rooms", Label: "Rooms", Kind: model.KindNumber},
		{Key: "ratePerNight", Label: "Rate per night", Kind: model.KindCurrency},
		{Key: "extraBeds", Label: "Extra beds", Kind: model.KindNumber},
		{Key: "extraBedRate", Label: "Extra bed rate", Kind: model.KindCurrency},
		{Key: "roomTotal", Label: "Room total", Kind: model.KindCurrency},
		{Key: "extraBedTotal", Label: "Extra bed total", Kind: model.KindCurrency},
		{Key: "grandTotal", Label: "Grand total", Kind: model.KindCurrency},
		{Key: "amountPaid", Label: "Amount paid", Kind: model.KindCurrency},
		{Key: "balance", Label: "Balance", Kind: model.KindCurrency},
	},
	List: listviewConfig("guestName", "hotel.hotelName", "destination.name", "roomType"),
	Form: form.Spec{
		Fields: []form.FieldSpec{
			{Key: "guestName", Label: "Guest name", Required: true},
			{Key: "package", Label: "Package", Input: form.InputSelect, Relation: true, Source: "packages"},
			{Key: "destination", Label: "Destination", Input: form.InputSelect, Relation: true, Source: "destinations", Required: true},
			{Key: "hotel", Label: "Hotel", Input: form.InputSelect, Relation: true, Source: "hotels", Required: true},
			{Key: "roomType", Label: "Room type", Input: form.InputSelect, Source: "roomTypes"},
			{Key: "checkIn", Label: "Check-in", Input: form.InputDate, Required: true},
			{Key: "checkOut", Label: "Check-out", Input: form.InputDate, Required: true},
			{Key: "rooms", Label: "Rooms", Input: form.InputNumber, Min: form.Min(1)},
			{Key: "ratePerNight", Label: "Rate per night", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "extraBeds", Label: "Extra beds", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "extraBedRate", Label: "Extra bed rate", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "amountPaid", Label: "Amount paid", Input: form.InputNumber, Min: form.Min(0)},
		},
		Defaults: func() model.Record { return model.Record{"rooms": 1.0} },
		Totals:   HotelBookingTotals,
		Dependents: map[string][]string{
			"destination": {"hotel", "roomType"},
			"hotel":       {"roomType"},
		},
	},
	CardTitle: "guestName",
	CardMeta: []model.FieldDescriptor{
		{Key: "hotel.hotelName", Label: "Hotel"},
		{Key: "roomType", Label: "Room"},
		{Key: "checkIn", Label: "Check-in", Kind: model.KindDate},
		{Key: "checkOut", Label: "Check-out", Kind: model.KindDate},
		{Key: "grandTotal", Label: "Total", Kind: model.KindCurrency},
	},
	Columns: []model.FieldDescriptor{
		{Key: "guestName", Label: "Guest"},
		{Key: "hotel.hotelName", Label: "Hotel"},
		{Key: "roomType", Label: "Room"},
		{Key: "checkIn", Label: "Check-in", Kind: model.KindDate},
		{Key: "checkOut", Label: "Check-out", Kind: model.KindDate},
		{Key: "grandTotal", Label: "Total", Kind: model.KindCurrency},
		{Key: "balance", Label: "Balance", Kind: model.KindCurrency},
	},
}, []sortDef{
	{"checkIn", "Check-in", "checkIn", model.KindDate},
	{"hotel", "Hotel", "hotel.hotelName", model.KindText},
	{"grandTotal", "Grand total", "grandTotal", model.KindCurrency},
})

var paymentMethods = []string{"cash", "card", "upi", "bank-transfer", "cheque"}

var Payments = define(Definition{
	Name:     "payments",
	Title:    "Payments",
	Singular: "payment",
	Resource: "/payments",
	Fields: []model.FieldDescriptor{
		{Key: "package.packageName", Label: "Package"},
		{Key: "package.customer.name", Label: "Customer"},
		{Key: "amount", Label: "Amount", Kind: model.KindCurrency},
		{Key: "paymentDate", Label: "Date", Kind: model.KindDate},
		{Key: "method", Label: "Method"},
		{Key: "reference", Label: "Reference"},
		{Key: "notes", Label: "Notes"},
	},
	List: listviewConfig("package.packageName", "method", "reference"),
	Form: form.Spec{
		Fields: []form.FieldSpec{
			{Key: "package", Label: "Package", Input: form.InputSelect, Relation: true, Source: "packages", Required: true},
			{Key: "amount", Label: "Amount", Input: form.InputNumber, Required: true, Min: form.Min(0)},
			{Key: "paymentDate", Label: "Payment date", Input: form.InputDate, Required: true},
			{Key: "method", Label: "Method", Input: form.InputSelect, Choices: paymentMethods},
			{Key: "reference", Label: "Reference"},
			{Key: "notes", Label: "Notes", Input: form.InputTextarea},
		},
		Defaults: func() model.Record { return model.Record{"method": "cash"} },
	},
	CardTitle: "package.packageName",
	CardMeta: []model.FieldDescriptor{
		{Key: "amount", Label: "Amount", Kind: model.KindCurrency},
		{Key: "paymentDate", Label: "Date", Kind: model.KindDate},
		{Key: "method", Label: "Method"},
	},
	Columns: []model.FieldDescriptor{
		{Key: "paymentDate", Label: "Date", Kind: model.KindDate},
		{Key: "package.packageName", Label: "Package"},
		{Key: "amount", Label: "Amount", Kind: model.KindCurrency},
		{Key: "method", Label: "Method"},
		{Key: "reference", Label: "Reference"},
	},
}, []sortDef{
	{"paymentDate", "Payment date", "paymentDate", model.KindDate},
	{"amount", "Amount", "amount", model.KindCurrency},
	{"method", "Method", "method", model.KindText},
})

var vehicleTypes = []string{"sedan", "suv", "tempo-traveller", "bus", "bike"}

var Transports = define(Definition{
	Name:     "transports",
	Title:    "Transports",
	Singular: "transport",
	Resource: "/transports",
	Fields: []model.FieldDescriptor{
		{Key: "vehicleType", Label: "Vehicle type"},
		{Key: "vehicleNumber", Label: "Vehicle number"},
		{Key: "driverName", Label: "Driver"},
		{Key: "driverPhone", Label: "Driver phone"},
		{Key: "package.packageName", Label: "Package"},
		{Key: "startDate", Label: "Start", Kind: model.KindDate},
		{Key: "dailyRent", Label: "Daily rent", Kind: model.KindCurrency},
		{Key: "noOfDays", Label: "Days", Kind: model.KindNumber},
		{Key: "totalRent", Label: "Total rent", Kind: model.KindCurrency},
		{Key: "extraKm", Label: "Extra km", Kind: model.KindNumber},
		{Key: "extraKmRate", Label: "Extra km rate", Kind: model.KindCurrency},
		{Key: "extraKmTotal", Label: "Extra km total", Kind: model.KindCurrency},
		{Key: "parkingToll", Label: "Parking & toll", Kind: model.KindCurrency},
		{Key: "netTotal", Label: "Net total", Kind: model.KindCurrency},
	},
	List: listviewConfig("vehicleType", "vehicleNumber", "driverName", "package.packageName"),
	Form: form.Spec{
		Fields: []form.FieldSpec{
			{Key: "vehicleType", Label: "Vehicle type", Input: form.InputSelect, Choices: vehicleTypes, Required: true},
			{Key: "vehicleNumber", Label: "Vehicle number", Required: true},
			{Key: "driverName", Label: "Driver name"},
			{Key: "driverPhone", Label: "Driver phone"},
			{Key: "package", Label: "Package", Input: form.InputSelect, Relation: true, Source: "packages"},
			{Key: "startDate", Label: "Start date", Input: form.InputDate},
			{Key: "dailyRent", Label: "Daily rent", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "noOfDays", Label: "No. of days", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "parkingToll", Label: "Parking & toll", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "extraKm", Label: "Extra km", Input: form.InputNumber, Min: form.Min(0)},
			{Key: "extraKmRate", Label: "Extra km rate", Input: form.InputNumber, Min: form.Min(0)},
		},
		Defaults: func() model.Record { return model.Record{"vehicleType": "sedan", "noOfDays": 1.0} },
		Totals:   TransportTotals,
	},
	CardTitle: "vehicleNumber",
	CardMeta: []model.FieldDescriptor{
		{Key: "vehicleType", Label: "Type"},
		{Key: "driverName", Label: "Driver"},
		{Key: "startDate", Label: "Start", Kind: model.KindDate},
		{Key: "netTotal", Label: "Net", Kind: model.KindCurrency},
	},
	Columns: []model.FieldDescriptor{
		{Key: "vehicleNumber", Label: "Vehicle"},
		{Key: "vehicleType", Label: "Type"},
		{Key: "driverName", Label: "Driver"},
		{Key: "package.packageName", Label: "Package"},
		{Key: "startDate", Label: "Start", Kind: model.KindDate},
		{Key: "netTotal", Label: "Net", Kind: model.KindCurrency},
	},
}, []sortDef{
	{"startDate", "Start date", "startDate", model.KindDate},
	{"netTotal", "Net total", "netTotal", model.KindCurrency},
	{"vehicleType", "Vehicle type", "vehicleType", model.KindText},
})
