package csv

const sampleCSV = `phone_number,full_name,amount
+22990123456,Jean Dupont,50000
+22991234567,Marie Kokou,75000
+22992345678,Pierre Agbessi,100000
+22993456789,Fatou Diallo,25000
+22994567890,Koffi Mensah,60000
`

// SampleCSV returns a template recipients file in the simple layout.
func SampleCSV() []byte {
	return []byte(sampleCSV)
}
